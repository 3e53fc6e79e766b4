// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage_test

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/priotama/internal/platform/config"
	"github.com/taibuivan/priotama/internal/platform/storage"
)

type fakeObjectAPI struct {
	puts    []*s3.PutObjectInput
	bodies  [][]byte
	deletes []string
	putErr  error
}

func (api *fakeObjectAPI) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if api.putErr != nil {
		return nil, api.putErr
	}
	body, _ := io.ReadAll(params.Body)
	api.puts = append(api.puts, params)
	api.bodies = append(api.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func (api *fakeObjectAPI) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	api.deletes = append(api.deletes, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func testConfig() config.S3Config {
	return config.S3Config{
		Bucket:    "priotama-assets",
		PublicURL: "https://cdn.priotama.app/",
		KeyPrefix: "/priotama/profile-pics/",
	}
}

/*
TestS3Store_Upload verifies key layout, URL construction and the request sent.
*/
func TestS3Store_Upload(t *testing.T) {
	api := &fakeObjectAPI{}
	store := storage.NewS3Store(api, testConfig())

	asset, err := store.Upload(context.Background(), []byte("png-bytes"), "image/png")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^priotama/profile-pics/profile_\d+_[0-9a-f-]{36}\.png$`), asset.Key)
	assert.Equal(t, "https://cdn.priotama.app/"+asset.Key, asset.URL)

	require.Len(t, api.puts, 1)
	assert.Equal(t, "priotama-assets", aws.ToString(api.puts[0].Bucket))
	assert.Equal(t, "image/png", aws.ToString(api.puts[0].ContentType))
	assert.Equal(t, []byte("png-bytes"), api.bodies[0])

	// Every upload gets its own key.
	second, err := store.Upload(context.Background(), []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.NotEqual(t, asset.Key, second.Key)
}

/*
TestS3Store_UploadErrors verifies content type rejection and upstream failures.
*/
func TestS3Store_UploadErrors(t *testing.T) {
	store := storage.NewS3Store(&fakeObjectAPI{}, testConfig())
	_, err := store.Upload(context.Background(), []byte("gif"), "image/gif")
	assert.Error(t, err)

	failing := storage.NewS3Store(&fakeObjectAPI{putErr: errors.New("boom")}, testConfig())
	_, err = failing.Upload(context.Background(), []byte("jpg"), "image/jpeg")
	assert.Error(t, err)
}

/*
TestS3Store_Delete verifies deletion by key and the empty-key no-op.
*/
func TestS3Store_Delete(t *testing.T) {
	api := &fakeObjectAPI{}
	store := storage.NewS3Store(api, testConfig())

	require.NoError(t, store.Delete(context.Background(), "priotama/profile-pics/a.png"))
	require.NoError(t, store.Delete(context.Background(), ""))

	assert.Equal(t, []string{"priotama/profile-pics/a.png"}, api.deletes)
}
