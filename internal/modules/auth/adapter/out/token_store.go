package out

import (
	"context"

	authout "rehab/internal/modules/auth/port/out"
	"rehab/internal/platform/kv"
)

type KVTokenStore struct {
	store *kv.FileStore
}

func NewKVTokenStore(store *kv.FileStore) authout.TokenStore {
	return &KVTokenStore{store: store}
}

func (s *KVTokenStore) Load(_ context.Context) (string, bool, error) {
	return s.store.Get(kv.TokenKey)
}

func (s *KVTokenStore) Save(_ context.Context, token string) error {
	return s.store.Set(kv.TokenKey, token)
}

func (s *KVTokenStore) Clear(_ context.Context) error {
	return s.store.Delete(kv.TokenKey)
}
