package ctxkeys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorkspace(t *testing.T) {
	require.Empty(t, Workspace(context.Background()))

	ctx := context.WithValue(context.Background(), WorkspaceID, "0b7d6c1e-2f4a-4d0e-9d55-6c3f1c2b8a90")
	require.Equal(t, "0b7d6c1e-2f4a-4d0e-9d55-6c3f1c2b8a90", Workspace(ctx))
}
