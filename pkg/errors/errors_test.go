// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

package errors_test

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	quiverr "github.com/quiver-dev/quiver/pkg/errors"
)

func TestCodeOf(t *testing.T) {
	err := quiverr.New(quiverr.CodeStoreCollectionNotFound, "missing")
	assert.Equal(t, quiverr.CodeStoreCollectionNotFound, quiverr.CodeOf(err))
	assert.True(t, quiverr.HasCode(err, quiverr.CodeStoreCollectionNotFound))

	assert.Equal(t, quiverr.Code(""), quiverr.CodeOf(nil))
	assert.Equal(t, quiverr.Code(""), quiverr.CodeOf(stderrors.New("plain")))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("root cause")
	err := quiverr.Wrapf(cause, quiverr.CodeStoreDatabaseFailure, "querying")

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, quiverr.CodeStoreDatabaseFailure, quiverr.CodeOf(err))

	assert.NoError(t, quiverr.Wrap(nil, quiverr.CodeStoreDatabaseFailure, "noop"))
	assert.NoError(t, quiverr.Wrapf(nil, quiverr.CodeStoreDatabaseFailure, "noop"))
}

func TestWithKeepsCode(t *testing.T) {
	err := quiverr.New(quiverr.CodeStoreRecordNotFound, "missing", quiverr.FieldRecordID("r1"))
	err = quiverr.With(err, quiverr.FieldCollection("animals"))

	assert.Equal(t, quiverr.CodeStoreRecordNotFound, quiverr.CodeOf(err))
	fields := quiverr.FieldsOf(err)
	assert.Equal(t, "animals", fields["collection"])
	assert.Equal(t, "r1", fields["record_id"])
}

func TestPredicates(t *testing.T) {
	assert.True(t, quiverr.IsNotFound(quiverr.New(quiverr.CodeStoreCollectionNotFound, "x")))
	assert.True(t, quiverr.IsNotFound(quiverr.New(quiverr.CodeEmbedModelNotFound, "x")))
	assert.True(t, quiverr.IsConflict(quiverr.New(quiverr.CodeStoreModelMismatch, "x")))
	assert.True(t, quiverr.IsMalformed(quiverr.New(quiverr.CodeVectorMalformed, "x")))
	assert.True(t, quiverr.IsUnsupported(quiverr.New(quiverr.CodeEmbedInputUnsupported, "x")))
	assert.True(t, quiverr.IsExhausted(quiverr.New(quiverr.CodeIngestDecodeExhausted, "x")))
	assert.True(t, quiverr.IsInvalidInput(quiverr.New(quiverr.CodeVectorScoreInvalid, "x")))
	assert.True(t, quiverr.IsUpstreamFailure(quiverr.New(quiverr.CodeEmbedUpstreamFailure, "x")))

	err := quiverr.New(quiverr.CodeStoreDatabaseFailure, "x")
	assert.False(t, quiverr.IsNotFound(err))
	assert.False(t, quiverr.IsConflict(err))
	assert.False(t, quiverr.IsUpstreamFailure(err))
	assert.False(t, quiverr.IsNotFound(nil))
}

func TestPredicatesSurviveWrapping(t *testing.T) {
	inner := quiverr.New(quiverr.CodeStoreRecordNotFound, "missing")
	outer := quiverr.With(inner, quiverr.FieldCollection("animals"))

	assert.True(t, quiverr.IsNotFound(outer))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code quiverr.Code
		want int
	}{
		{quiverr.CodeStoreCollectionNotFound, http.StatusNotFound},
		{quiverr.CodeStoreRecordNotFound, http.StatusNotFound},
		{quiverr.CodeStoreModelMismatch, http.StatusConflict},
		{quiverr.CodeVectorScoreInvalid, http.StatusBadRequest},
		{quiverr.CodeVectorMalformed, http.StatusBadRequest},
		{quiverr.CodeEmbedInputUnsupported, http.StatusUnprocessableEntity},
		{quiverr.CodeEmbedUpstreamFailure, http.StatusBadGateway},
		{quiverr.CodeStoreDatabaseFailure, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		err := quiverr.New(tc.code, "test")
		assert.Equal(t, tc.want, quiverr.HTTPStatus(err), "code %s", tc.code)
	}
}
