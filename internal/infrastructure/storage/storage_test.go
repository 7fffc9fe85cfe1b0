package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalImageStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "uploaded")

	store, err := NewLocalImageStore(dir, "/images/uploaded/")
	require.NoError(t, err)

	ref, err := store.Save(ctx, "listing-1-2.png", "image/png", bytes.NewReader([]byte("png")))
	require.NoError(t, err)
	assert.Equal(t, "/images/uploaded/listing-1-2.png", ref)

	data, err := os.ReadFile(filepath.Join(dir, "listing-1-2.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	t.Run("rejeita nomes com diretório", func(t *testing.T) {
		_, err := store.Save(ctx, "../escape.png", "image/png", bytes.NewReader(nil))
		assert.Error(t, err)
	})

	t.Run("não sobrescreve arquivo existente", func(t *testing.T) {
		_, err := store.Save(ctx, "listing-1-2.png", "image/png", bytes.NewReader(nil))
		assert.Error(t, err)
	})

	t.Run("remove a imagem", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, ref))
		_, err := os.Stat(filepath.Join(dir, "listing-1-2.png"))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("ignora referências ausentes ou externas", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, ref))
		assert.NoError(t, store.Delete(ctx, "https://cdn.example.com/a.png"))
		assert.NoError(t, store.Delete(ctx, "/images/uploaded/../../etc/passwd"))
	})
}

type fakeS3 struct {
	objects map[string][]byte
	putErr  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3ImageStore(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string][]byte{}}
	store := newS3ImageStore(fake, "gear", "https://cdn.example.com/")

	ref, err := store.Save(ctx, "listing-1-2.jpg", "image/jpeg", bytes.NewReader([]byte("jpg")))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/listings/listing-1-2.jpg", ref)
	assert.Equal(t, []byte("jpg"), fake.objects["listings/listing-1-2.jpg"])

	require.NoError(t, store.Delete(ctx, "/images/uploaded/other.jpg"))
	assert.Len(t, fake.objects, 1)

	require.NoError(t, store.Delete(ctx, ref))
	assert.Empty(t, fake.objects)

	fake.putErr = errors.New("access denied")
	_, err = store.Save(ctx, "listing-3-4.jpg", "image/jpeg", bytes.NewReader(nil))
	assert.Error(t, err)
}
