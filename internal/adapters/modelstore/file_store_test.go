package modelstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smx/phishsim/internal/risk"
)

func testState() *risk.ModelState {
	return &risk.ModelState{
		Classifier: &risk.LogisticRegression{Weights: []float64{0.5, -0.25}, Bias: 0.1},
		Scaler:     &risk.StandardScaler{Mean: []float64{1, 2}, Scale: []float64{0.5, 1}},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(
		filepath.Join(dir, "risk_classifier.json"),
		filepath.Join(dir, "risk_scaler.json"),
		zap.NewNop(),
	)

	require.NoError(t, store.Save(testState()))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, testState().Classifier, loaded.Classifier)
	assert.Equal(t, testState().Scaler, loaded.Scaler)
}

func TestFileStoreLoadMissingArtifacts(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(
		filepath.Join(dir, "risk_classifier.json"),
		filepath.Join(dir, "risk_scaler.json"),
		zap.NewNop(),
	)

	state, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestFileStoreLoadPartialArtifacts(t *testing.T) {
	dir := t.TempDir()
	classifierPath := filepath.Join(dir, "risk_classifier.json")
	require.NoError(t, os.WriteFile(classifierPath, []byte(`{"weights":[1],"bias":0}`), 0644))

	store := NewFileStore(classifierPath, filepath.Join(dir, "risk_scaler.json"), zap.NewNop())

	state, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestFileStoreSaveCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(
		filepath.Join(dir, "models", "risk_classifier.json"),
		filepath.Join(dir, "models", "risk_scaler.json"),
		zap.NewNop(),
	)

	require.NoError(t, store.Save(testState()))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
}

func TestFileStoreLoadCorruptArtifact(t *testing.T) {
	dir := t.TempDir()
	classifierPath := filepath.Join(dir, "risk_classifier.json")
	scalerPath := filepath.Join(dir, "risk_scaler.json")
	require.NoError(t, os.WriteFile(classifierPath, []byte("not json"), 0644))
	require.NoError(t, os.WriteFile(scalerPath, []byte("{}"), 0644))

	store := NewFileStore(classifierPath, scalerPath, zap.NewNop())

	_, err := store.Load()
	assert.Error(t, err)
}
