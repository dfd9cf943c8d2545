package schemadex_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/schemadex"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := schemadex.Errorf(schemadex.ENOTFOUND, "entity %q not found", "test")

	assert.Equal(t, schemadex.ENOTFOUND, schemadex.ErrorCode(err))
	assert.Equal(t, "entity \"test\" not found", schemadex.ErrorMessage(err))
}

func TestErrorCode_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("reading client_dll.json: %w", schemadex.Errorf(schemadex.EUNAVAILABLE, "HTTP 404"))

	assert.Equal(t, schemadex.EUNAVAILABLE, schemadex.ErrorCode(err))
	assert.Equal(t, "HTTP 404", schemadex.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("boom")

	assert.Equal(t, schemadex.EINTERNAL, schemadex.ErrorCode(err))
	assert.Equal(t, "Internal error.", schemadex.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, schemadex.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, schemadex.ErrorMessage(nil))
}
