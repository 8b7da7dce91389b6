package store

import (
	"errors"
	"fmt"

	"github.com/ByLCY/oshirase/announce"
)

const draftPrefix = "draft:"

// LoadDraft 读取客户端保存的草稿；没有保存过时返回空草稿与 ErrNotFound。
func (s *FileStore) LoadDraft(clientID string) (announce.Draft, error) {
	var d announce.Draft
	if err := s.Get(draftPrefix+clientID, &d); err != nil {
		if errors.Is(err, ErrNotFound) {
			return announce.Draft{}, ErrNotFound
		}
		return announce.Draft{}, fmt.Errorf("读取草稿失败: %w", err)
	}
	return d, nil
}

// SaveDraft 覆盖客户端的草稿。
func (s *FileStore) SaveDraft(clientID string, d announce.Draft) error {
	return s.Set(draftPrefix+clientID, d)
}

// DeleteDraft 删除客户端的草稿。
func (s *FileStore) DeleteDraft(clientID string) error {
	return s.Delete(draftPrefix + clientID)
}
