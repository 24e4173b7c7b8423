// Package blobtest holds the behavioural suite shared by blob backends.
package blobtest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"gameframework/internal/blob/core"
)

// RunStoreContract exercises create-only and overwrite puts, reads, listing
// and deletion against a fresh store returned by open.
func RunStoreContract(t *testing.T, open func(t *testing.T) core.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("put get head", func(t *testing.T) {
		store := open(t)
		info, err := store.Put(ctx, "alpha/test.txt", bytes.NewReader([]byte("hello")), core.PutOptions{ContentType: "text/plain", Metadata: map[string]string{"k": "v"}})
		if err != nil {
			t.Fatalf("put: %v", err)
		}
		if info.Key != "alpha/test.txt" || info.Size != 5 {
			t.Fatalf("unexpected info %+v", info)
		}
		head, err := store.Head(ctx, "alpha/test.txt")
		if err != nil {
			t.Fatalf("head: %v", err)
		}
		if head.Size != 5 || head.ContentType != "text/plain" {
			t.Fatalf("unexpected head %+v", head)
		}
		got, rc, err := store.Get(ctx, "alpha/test.txt")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		body, _ := io.ReadAll(rc)
		_ = rc.Close()
		if string(body) != "hello" || got.Key != "alpha/test.txt" {
			t.Fatalf("unexpected get %q %+v", body, got)
		}
	})

	t.Run("create only and overwrite", func(t *testing.T) {
		store := open(t)
		if _, err := store.Put(ctx, "k", bytes.NewReader([]byte("one")), core.PutOptions{}); err != nil {
			t.Fatalf("put: %v", err)
		}
		if _, err := store.Put(ctx, "k", bytes.NewReader([]byte("two")), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
			t.Fatalf("expected ErrExists, got %v", err)
		}
		if _, err := store.Put(ctx, "k", bytes.NewReader([]byte("three")), core.PutOptions{Overwrite: true}); err != nil {
			t.Fatalf("overwrite: %v", err)
		}
		_, rc, err := store.Get(ctx, "k")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		body, _ := io.ReadAll(rc)
		_ = rc.Close()
		if string(body) != "three" {
			t.Fatalf("expected overwritten body, got %q", body)
		}
	})

	t.Run("missing keys", func(t *testing.T) {
		store := open(t)
		if _, _, err := store.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("expected ErrNotFound from Get, got %v", err)
		}
		if _, err := store.Head(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("expected ErrNotFound from Head, got %v", err)
		}
		if ok, err := store.Delete(ctx, "missing"); err != nil || ok {
			t.Fatalf("delete missing = %v, %v", ok, err)
		}
	})

	t.Run("list and delete", func(t *testing.T) {
		store := open(t)
		for _, key := range []string{"b/2", "a/1", "b/1"} {
			if _, err := store.Put(ctx, key, bytes.NewReader([]byte(key)), core.PutOptions{}); err != nil {
				t.Fatalf("put %s: %v", key, err)
			}
		}
		list, err := store.List(ctx, "b/")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 2 || list[0].Key != "b/1" || list[1].Key != "b/2" {
			t.Fatalf("unexpected list %+v", list)
		}
		if all, _ := store.List(ctx, ""); len(all) != 3 {
			t.Fatalf("expected 3 objects, got %d", len(all))
		}
		if ok, err := store.Delete(ctx, "b/1"); err != nil || !ok {
			t.Fatalf("delete = %v, %v", ok, err)
		}
		if list, _ := store.List(ctx, "b/"); len(list) != 1 {
			t.Fatalf("expected 1 object after delete, got %d", len(list))
		}
	})
}
