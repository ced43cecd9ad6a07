package console

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterForm_Set(t *testing.T) {
	form := NewFilterForm(AdminFields)

	require.NoError(t, form.Set("name", "  love "))
	assert.Equal(t, "love", form.Get("name"))

	assert.Error(t, form.Set("search", "x"), "search is not an admin field")
	assert.Error(t, form.Set("genre", "pop"))
	assert.Error(t, form.Set("created_by", "someone"))
	require.NoError(t, form.Set("created_by", "7c9e6679-7425-40de-944b-e07fc1f90ae7"))

	require.NoError(t, form.Set("name", ""))
	assert.Empty(t, form.Get("name"))
}

func TestFilterForm_QueryAndLoad(t *testing.T) {
	form := NewFilterForm(PublicFields)
	require.NoError(t, form.Set("search", "amor"))

	assert.Equal(t, url.Values{"search": {"amor"}}, form.Query())

	require.NoError(t, form.Load(url.Values{"language": {"2"}, "page": {"4"}}))
	assert.Empty(t, form.Get("search"))
	assert.Equal(t, "2", form.Get("language"))

	assert.Error(t, form.Load(url.Values{"language": {"two"}, "search": {"paz"}}))
	assert.Equal(t, "2", form.Get("language"))
	assert.Empty(t, form.Get("search"))

	form.Reset()
	assert.Empty(t, form.Query())
}
