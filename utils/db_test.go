package utils

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetListingByIDNotFound(t *testing.T) {
	setupTestDB(t)

	_, err := GetListingByID(999)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestGetUserByEmailNotFound(t *testing.T) {
	setupTestDB(t)

	_, err := GetUserByEmail("nobody@example.com")
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}
