// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
)

// QuickCheck is similar to testing/quick.Check, but takes an additional list of static items to
// feed as inputs.
func QuickCheck(t *testing.T, fn interface{}, cfg quick.Config, testcases ...[]interface{}) {
	t.Helper()
	err := quick.Check(fn, &cfg)
	assert.NoError(t, err)
	var setupErr quick.SetupError
	if errors.As(err, &setupErr) {
		return
	}

	fnVal := reflect.ValueOf(fn)
	for i, tc := range testcases {
		if len(tc) != fnVal.Type().NumIn() {
			t.Errorf("static#%d has %d args, but the function takes %d args",
				i, len(tc), fnVal.Type().NumIn())
			continue
		}
		args := make([]reflect.Value, len(tc))
		for j := range args {
			args[j] = reflect.ValueOf(tc[j])
		}
		if !fnVal.Call(args)[0].Bool() {
			assert.NoError(t, fmt.Errorf("static%w", &quick.CheckError{
				Count: i + 1,
				In:    toInterfaces(args),
			}))
		}
	}
}

// QuickCheckEqual is similar to testing/quick.CheckEqual, but takes an additional list of static
// items to feed as inputs.
func QuickCheckEqual(t *testing.T, fn1, fn2 interface{}, cfg quick.Config, testcases ...[]interface{}) {
	t.Helper()
	err := quick.CheckEqual(fn1, fn2, &cfg)
	assert.NoError(t, err)
	var setupErr quick.SetupError
	if errors.As(err, &setupErr) {
		return
	}

	fn1Val := reflect.ValueOf(fn1)
	fn2Val := reflect.ValueOf(fn2)
	for i, tc := range testcases {
		if len(tc) != fn1Val.Type().NumIn() {
			t.Errorf("static#%d has %d args, but the functions take %d args",
				i, len(tc), fn1Val.Type().NumIn())
			continue
		}
		args := make([]reflect.Value, len(tc))
		for j := range args {
			args[j] = reflect.ValueOf(tc[j])
		}
		ret1 := toInterfaces(fn1Val.Call(args))
		ret2 := toInterfaces(fn2Val.Call(args))
		if !reflect.DeepEqual(ret1, ret2) {
			assert.NoError(t, fmt.Errorf("static%w", &quick.CheckEqualError{
				CheckError: quick.CheckError{
					Count: i + 1,
					In:    toInterfaces(args),
				},
				Out1: ret1,
				Out2: ret2,
			}))
		}
	}
}

func toInterfaces(values []reflect.Value) []interface{} {
	ret := make([]interface{}, len(values))
	for i, val := range values {
		ret[i] = val.Interface()
	}
	return ret
}

type QuickConfig = quick.Config

// versionishAlphabet is weighted towards the characters that make up semantic versions, so that
// randomly generated strings are frequently (but not always) valid versions.
const versionishAlphabet = "0000111122223333456789....--+vvxabcrZ "

// RandomVersionish returns a random string that looks roughly like a version number.
func RandomVersionish(rand *rand.Rand) string {
	var ret strings.Builder
	if rand.Intn(2) == 0 {
		// Bias towards the shape X.Y.Z, then maybe decorate it.
		fmt.Fprintf(&ret, "%d.%d.%d", rand.Intn(3), rand.Intn(12), rand.Intn(25))
	}
	for n := rand.Intn(6); n > 0; n-- {
		ret.WriteByte(versionishAlphabet[rand.Intn(len(versionishAlphabet))])
	}
	return ret.String()
}

// VersionishValues is a quick.Config.Values function for functions whose arguments are all
// strings.
func VersionishValues(args []reflect.Value, rand *rand.Rand) {
	for i := range args {
		args[i] = reflect.ValueOf(RandomVersionish(rand))
	}
}

// VersionishListValues is a quick.Config.Values function for functions whose arguments are all
// []string.
func VersionishListValues(args []reflect.Value, rand *rand.Rand) {
	for i := range args {
		list := make([]string, rand.Intn(10))
		for j := range list {
			list[j] = RandomVersionish(rand)
		}
		args[i] = reflect.ValueOf(list)
	}
}
