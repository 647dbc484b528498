package supabase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adstudio-backend/internal/supabase"
)

func TestStorageClient_GetPublicURL(t *testing.T) {
	client, err := supabase.NewStorageClient("https://proj.supabase.co/", "key", "generated-images")
	require.NoError(t, err)

	url := client.GetPublicURL("batches/abc/rows/1/img.png")
	assert.Equal(t, "https://proj.supabase.co/storage/v1/object/public/generated-images/batches/abc/rows/1/img.png", url)
}

func TestStorageClient_TrimsTrailingSlash(t *testing.T) {
	client, err := supabase.NewStorageClient("https://proj.supabase.co/", "key", "csv-uploads")
	require.NoError(t, err)

	url := client.GetPublicURL("batches/abc/source.csv")
	assert.NotContains(t, url, ".co//storage")
}
