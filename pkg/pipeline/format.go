// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/datawire/semv/pkg/version"
)

// verboseRecord is the JSON form of a record.  The fields are declared in alphabetical order so
// that the keys come out sorted; the version fields are pointers so that they are omitted
// entirely (rather than zero) for records that are not semantic versions.
type verboseRecord struct {
	Build    *string `json:"build,omitempty"`
	Major    *uint64 `json:"major,omitempty"`
	Minor    *uint64 `json:"minor,omitempty"`
	Original string  `json:"original"`
	Patch    *uint64 `json:"patch,omitempty"`
	Pre      *string `json:"pre,omitempty"`
}

func newVerboseRecord(rec version.Record) verboseRecord {
	ret := verboseRecord{
		Original: rec.Original,
	}
	if ver := rec.Version; ver != nil {
		major, minor, patch := ver.Major(), ver.Minor(), ver.Patch()
		pre, build := ver.Prerelease(), ver.Metadata()
		ret.Major = &major
		ret.Minor = &minor
		ret.Patch = &patch
		ret.Pre = &pre
		ret.Build = &build
	}
	return ret
}

// MarshalVerbose renders a record as a single line of JSON, such as
//
//     {"build":"","major":1,"minor":1,"original":"1.1.0","patch":0,"pre":""}
//
// or, for a record that isn't a semantic version,
//
//     {"original":"foo"}
func MarshalVerbose(rec version.Record) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(newVerboseRecord(rec)); err != nil {
		return "", fmt.Errorf("pipeline.MarshalVerbose: %q: %w", rec.Original, err)
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// Format renders each record as a line of output: the original string, or the MarshalVerbose
// JSON if verbose is true.
func Format(records []version.Record, verbose bool) ([]string, error) {
	ret := make([]string, 0, len(records))
	for _, rec := range records {
		if !verbose {
			ret = append(ret, rec.Original)
			continue
		}
		line, err := MarshalVerbose(rec)
		if err != nil {
			return nil, err
		}
		ret = append(ret, line)
	}
	return ret, nil
}
