package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/wanderbuddy/pkg/adapters/memory"
	"github.com/aretw0/wanderbuddy/pkg/ports"
	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunKeyValueStoreContract(t, store)
}

func TestMemoryStore_ConcurrentWrites(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Set(ctx, "k", "v"))
			_, _ = store.Get(ctx, "k")
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"k"}, store.Keys())
}
