// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/oops"
)

// Code is the machine-readable identifier for an error.
type Code string

const (
	CodeVectorMalformed     Code = "vector.decode.malformed"
	CodeVectorScoreInvalid  Code = "vector.score.invalid_input"
	CodeVectorEncodeInvalid Code = "vector.encode.invalid_input"

	CodeStoreDatabaseFailure    Code = "store.database.failure"
	CodeStoreCollectionNotFound Code = "store.collection.get.not_found"
	CodeStoreRecordNotFound     Code = "store.record.get.not_found"
	CodeStoreModelMismatch      Code = "store.collection.model.conflict"
	CodeStoreInvalidInput       Code = "store.invalid_input"

	CodeEmbedInputUnsupported Code = "embed.input.unsupported"
	CodeEmbedModelNotFound    Code = "embed.model.not_found"
	CodeEmbedBatchFailure     Code = "embed.batch.failure"
	CodeEmbedUpstreamFailure  Code = "embed.upstream.failure"
	CodeEmbedRequestInvalid   Code = "embed.request.invalid"

	CodeIngestDecodeExhausted Code = "ingest.decode.exhausted"
	CodeIngestSourceInvalid   Code = "ingest.source.invalid_input"
	CodeIngestWalkFailure     Code = "ingest.walk.failure"

	CodeConfigLoadReadFailure      Code = "config.load.read.failure"
	CodeConfigValidateInvalidValue Code = "config.validate.invalid_value"

	CodeServerStartFailure    Code = "server.start.failure"
	CodeServerRequestInvalid  Code = "server.request.invalid"
	CodeServerInternalFailure Code = "server.internal.failure"

	CodeCLISetupFailure Code = "cli.setup.failure"
	CodeCLIInputInvalid Code = "cli.input.invalid"
)

// Attr is a structured key/value context attached to an error.
type Attr struct {
	Key   string
	Value any
}

// Field creates a structured error field.
func Field(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

func FieldCollection(value string) Attr {
	return Field("collection", value)
}

func FieldModel(value string) Attr {
	return Field("model", value)
}

func FieldRecordID(value string) Attr {
	return Field("record_id", value)
}

func FieldPath(value string) Attr {
	return Field("path", value)
}

func New(code Code, msg string, fields ...Attr) error {
	return oops.Code(code).With(flatten(fields)...).New(msg)
}

func Errorf(code Code, format string, args ...any) error {
	return oops.Code(code).Errorf(format, args...)
}

func Wrap(err error, code Code, msg string, fields ...Attr) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).With(flatten(fields)...).Wrapf(err, "%s", msg)
}

func Wrapf(err error, code Code, format string, args ...any) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).Wrapf(err, format, args...)
}

// With adds structured fields to an existing error chain.
func With(err error, fields ...Attr) error {
	if err == nil {
		return nil
	}

	code := CodeOf(err)
	if code == "" {
		code = CodeServerInternalFailure
	}

	return oops.Code(code).With(flatten(fields)...).Wrap(err)
}

func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}

	if code, ok := oopsErr.Code().(Code); ok {
		return code
	}

	if code, ok := oopsErr.Code().(string); ok {
		return Code(code)
	}

	return Code(fmt.Sprintf("%v", oopsErr.Code()))
}

func FieldsOf(err error) map[string]any {
	if err == nil {
		return nil
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}

	return oopsErr.Context()
}

func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

func IsNotFound(err error) bool {
	return reason(CodeOf(err)) == "not_found"
}

func IsConflict(err error) bool {
	return reason(CodeOf(err)) == "conflict"
}

func IsInvalidInput(err error) bool {
	r := reason(CodeOf(err))
	return r == "invalid" || r == "invalid_input" || r == "invalid_value" || r == "invalid_format"
}

// IsMalformed reports codec-level shape violations, such as a vector
// blob whose length is not a multiple of the element width.
func IsMalformed(err error) bool {
	return reason(CodeOf(err)) == "malformed"
}

// IsUnsupported reports capability mismatches, such as binary input
// dispatched to a text-only embedding model.
func IsUnsupported(err error) bool {
	return reason(CodeOf(err)) == "unsupported"
}

// IsExhausted reports that every configured alternative was tried and
// failed, such as no encoding in the chain being able to decode a file.
func IsExhausted(err error) bool {
	return reason(CodeOf(err)) == "exhausted"
}

func IsUpstreamFailure(err error) bool {
	code := CodeOf(err)
	return strings.Contains(string(code), "upstream") && reason(code) == "failure"
}

func HTTPStatus(err error) int {
	switch {
	case IsNotFound(err):
		return http.StatusNotFound
	case IsConflict(err):
		return http.StatusConflict
	case IsInvalidInput(err), IsMalformed(err):
		return http.StatusBadRequest
	case IsUnsupported(err):
		return http.StatusUnprocessableEntity
	case IsUpstreamFailure(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func Join(errs ...error) error {
	return oops.Code(CodeServerInternalFailure).Wrap(stderrors.Join(errs...))
}

func flatten(fields []Attr) []any {
	pairs := make([]any, 0, len(fields)*2)
	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		pairs = append(pairs, field.Key, field.Value)
	}
	return pairs
}

func reason(code Code) string {
	if code == "" {
		return ""
	}

	raw := string(code)
	idx := strings.LastIndex(raw, ".")
	if idx == -1 || idx == len(raw)-1 {
		return raw
	}
	return raw[idx+1:]
}
