package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"thirdcoast.systems/retouch/pkg/editstate"
)

func TestCatalog_CoversEveryParameter(t *testing.T) {
	cat := Catalog()
	require.Len(t, cat, len(editstate.Parameters()))
	for i, p := range editstate.Parameters() {
		s := cat[i]
		lo, hi := p.Range()
		assert.Equal(t, p.String(), s.Key)
		assert.Equal(t, lo, s.Min)
		assert.Equal(t, hi, s.Max)
		assert.Equal(t, p.Default(), s.Default)
		assert.NotEqual(t, "sliders", s.Icon, "parameter %s has no icon", p)
	}
}

func TestForParameter(t *testing.T) {
	s := ForParameter(editstate.Blur)
	require.Equal(t, "Blur", s.Label)
	require.Equal(t, "px", s.Unit)
	require.Equal(t, float64(20), s.Max)
	require.Equal(t, "slider-blur", s.ElementID())
}

func TestReadout(t *testing.T) {
	require.Equal(t, "140%", ForParameter(editstate.Brightness).Readout(140))
	require.Equal(t, "3px", ForParameter(editstate.Blur).Readout(3))
	require.Equal(t, "90deg", RotationSlider().Readout(90))
}

func TestFmtNum(t *testing.T) {
	require.Equal(t, "1", FmtNum(1))
	require.Equal(t, "0.5", FmtNum(0.5))
}

func TestExpressions(t *testing.T) {
	assert.Contains(t, SelectExpr(editstate.Sepia), "$_parameter='sepia'")
	assert.Contains(t, SelectExpr(editstate.Sepia), "/api/editor/parameter/select")

	drag := DragExpr(editstate.Brightness)
	commit := CommitExpr(editstate.Brightness)
	assert.Contains(t, drag, "/api/editor/parameter/drag")
	assert.Contains(t, commit, "/api/editor/parameter/commit")
	assert.Contains(t, drag, "_value")

	assert.Contains(t, RotationDragExpr(), "/api/editor/rotation/drag")
	assert.Contains(t, RotationCommitExpr(), "/api/editor/rotation/commit")
	assert.Equal(t, "@post('/api/editor/undo')", PostExpr("/api/editor/undo"))
}
