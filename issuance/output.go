package issuance

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ByLCY/diploma/atomicfile"
)

// OutputStore 保存生成的证书图片，返回响应中的 path。
type OutputStore interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
}

// LocalStore 将证书写入本地目录。
type LocalStore struct {
	Dir string
}

var _ OutputStore = LocalStore{}

func (s LocalStore) Save(_ context.Context, filename string, data []byte) (string, error) {
	path := filepath.Join(s.Dir, filepath.Base(filename))
	if err := atomicfile.Write(path, data, 0o644); err != nil {
		return "", fmt.Errorf("写入证书 %s 失败: %w", filename, err)
	}
	return path, nil
}
