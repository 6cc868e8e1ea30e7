package supabase

import (
	"fmt"

	"github.com/supabase-community/supabase-go"
)

type Client struct {
	Supabase *supabase.Client
}

// NewClient connects with the service role key; uploads are written
// server side only.
func NewClient(supabaseURL, serviceKey string) (*Client, error) {
	client, err := supabase.NewClient(supabaseURL, serviceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &Client{Supabase: client}, nil
}

// Storage returns a content store over bucket backed by this project.
func (c *Client) Storage(bucket string) *StorageClient {
	return newStorageClient(c.Supabase.Storage, bucket)
}
