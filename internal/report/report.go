// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package report encodes transfer outcomes as protobuf messages.
package report

import (
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/f-secure-foundry/armory-m2m/internal/m2m"
)

// Report represents a transfer outcome.
type Report struct {
	msg *structpb.Struct
}

// New encodes a transfer result observed at the given time.
func New(res m2m.Result, at time.Time) (r *Report, err error) {
	ts := timestamppb.New(at)

	fields := map[string]interface{}{
		"state":      res.State.String(),
		"ok":         res.OK(),
		"elapsed_ns": res.Elapsed.Nanoseconds(),
		"timestamp": map[string]interface{}{
			"seconds": ts.Seconds,
			"nanos":   ts.Nanos,
		},
	}

	if res.Cause != nil {
		fields["cause"] = res.Cause.Error()
	}

	if mm := res.Mismatch; mm != nil {
		fields["mismatch_index"] = mm.Index
		fields["want"] = mm.Want

		if !mm.Missing {
			fields["got"] = mm.Got
		}
	}

	msg, err := structpb.NewStruct(fields)

	if err != nil {
		return
	}

	return &Report{msg: msg}, nil
}

// Parse decodes a protobuf wire format report.
func Parse(buf []byte) (r *Report, err error) {
	msg := &structpb.Struct{}

	if err = proto.Unmarshal(buf, msg); err != nil {
		return
	}

	return &Report{msg: msg}, nil
}

func (r *Report) Struct() *structpb.Struct {
	return r.msg
}

// State returns the reported supervisor state name.
func (r *Report) State() string {
	return r.msg.Fields["state"].GetStringValue()
}

// Time returns the report timestamp.
func (r *Report) Time() time.Time {
	ts := r.msg.Fields["timestamp"].GetStructValue()

	if ts == nil {
		return time.Time{}
	}

	pb := &timestamppb.Timestamp{
		Seconds: int64(ts.Fields["seconds"].GetNumberValue()),
		Nanos:   int32(ts.Fields["nanos"].GetNumberValue()),
	}

	return pb.AsTime()
}

func (r *Report) Bytes() (buf []byte) {
	buf, _ = proto.Marshal(r.msg)
	return
}

func (r *Report) JSON() (buf []byte) {
	buf, _ = protojson.MarshalOptions{Multiline: true}.Marshal(r.msg)
	return
}
