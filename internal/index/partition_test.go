package index

import (
	"path/filepath"
	"testing"

	"github.com/SoulShadow8326/soulsearch/internal/docmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketForLetterAndMisc(t *testing.T) {
	assert.Equal(t, "q", BucketFor("quick"))
	assert.Equal(t, "q", BucketFor("Quick"))
	assert.Equal(t, "misc", BucketFor("123abc"))
	assert.Equal(t, "misc", BucketFor(""))
}

func TestPartitionRoutesTermsToCorrectShard(t *testing.T) {
	dir := t.TempDir()
	acc := NewAccumulator(dir, 0, 0) // maxSize 0 disables auto-spill
	acc.Index["quick"] = []docmodel.Posting{{DocID: 0, Frequency: 1, Positions: []int{0}}}
	acc.Index["apple"] = []docmodel.Posting{{DocID: 0, Frequency: 1, Positions: []int{1}}}
	require.NoError(t, acc.Spill())
	require.Len(t, acc.PartialFiles, 1)

	shardDir := filepath.Join(dir, "shards")
	written, err := Partition(acc.PartialFiles, shardDir)
	require.NoError(t, err)

	qShard, err := LoadShard(written["q"])
	require.NoError(t, err)
	assert.Contains(t, qShard, "quick")

	aShard, err := LoadShard(written["a"])
	require.NoError(t, err)
	assert.Contains(t, aShard, "apple")
}

func TestSpillThenFlushProducesSameIndexAsNoSpill(t *testing.T) {
	// Spilling should be observationally invisible: a tiny spill threshold
	// must produce the same merged shard as no spilling at all.
	dirSpill := t.TempDir()
	accSpill := NewAccumulator(dirSpill, 0, 1) // tiny threshold forces spills
	for i := 0; i < 20; i++ {
		_, err := accSpill.Ingest(i, "the quick brown fox jumps", nil)
		require.NoError(t, err)
	}
	require.NoError(t, accSpill.Flush())

	dirNoSpill := t.TempDir()
	accNoSpill := NewAccumulator(dirNoSpill, 0, 0)
	for i := 0; i < 20; i++ {
		_, err := accNoSpill.Ingest(i, "the quick brown fox jumps", nil)
		require.NoError(t, err)
	}
	require.NoError(t, accNoSpill.Flush())

	shardDirSpill := filepath.Join(dirSpill, "shards")
	writtenSpill, err := Partition(accSpill.PartialFiles, shardDirSpill)
	require.NoError(t, err)

	shardDirNoSpill := filepath.Join(dirNoSpill, "shards")
	writtenNoSpill, err := Partition(accNoSpill.PartialFiles, shardDirNoSpill)
	require.NoError(t, err)

	qShardSpill, err := LoadShard(writtenSpill["q"])
	require.NoError(t, err)
	qShardNoSpill, err := LoadShard(writtenNoSpill["q"])
	require.NoError(t, err)
	assert.Equal(t, qShardNoSpill, qShardSpill)
}
