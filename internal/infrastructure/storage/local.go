package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rafabene/gearshare-backend/internal/domain/ports"
)

// LocalImageStore grava imagens num diretório servido estaticamente
type LocalImageStore struct {
	dir        string
	publicPath string
}

var _ ports.ImageStore = (*LocalImageStore)(nil)

// NewLocalImageStore cria o diretório de destino se necessário
func NewLocalImageStore(dir, publicPath string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalImageStore{dir: dir, publicPath: strings.TrimRight(publicPath, "/")}, nil
}

// Save grava o conteúdo e devolve o caminho público (/images/uploaded/<name>)
func (s *LocalImageStore) Save(_ context.Context, name, _ string, content io.Reader) (string, error) {
	name, err := cleanName(name)
	if err != nil {
		return "", err
	}

	target := filepath.Join(s.dir, name)
	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}

	if _, err := io.Copy(file, content); err != nil {
		_ = file.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("failed to close image file: %w", err)
	}

	return s.publicPath + "/" + name, nil
}

// Delete remove a imagem referenciada; referências externas ou ausentes são ignoradas
func (s *LocalImageStore) Delete(_ context.Context, ref string) error {
	prefix := s.publicPath + "/"
	if !strings.HasPrefix(ref, prefix) {
		return nil
	}

	name, err := cleanName(strings.TrimPrefix(ref, prefix))
	if err != nil {
		return nil
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// cleanName aceita apenas um nome de arquivo simples, sem diretórios
func cleanName(name string) (string, error) {
	if name == "" || name != path.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid image name %q", name)
	}
	return name, nil
}
