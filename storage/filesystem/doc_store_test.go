package filesystem

import (
	"testing"

	sent "github.com/revelaction/depparse/sentence"
	"github.com/revelaction/depparse/storage"
	"github.com/stretchr/testify/require"
)

func testDoc(title string) sent.Doc {
	return sent.Doc{
		Title:   title,
		DocText: "Tom ran. Jerry ran.",
		Sentences: [][]sent.Token{
			{
				{Start: 0, Len: 3, Pos: "NNP", Lemma: "tom", Gov: 1, Rel: "nsubj", Text: "Tom"},
				{Start: 4, Len: 3, Pos: "VBD", Lemma: "run", Gov: -1, Rel: "root", Text: "ran"},
			},
			{
				{Start: 9, Len: 5, Pos: "NNP", Lemma: "jerry", Gov: 1, Rel: "nsubj", Text: "Jerry"},
				{Start: 15, Len: 3, Pos: "VBD", Lemma: "run", Gov: -1, Rel: "root", Text: "ran"},
			},
		},
	}
}

func TestDocStoreWriteRead(t *testing.T) {
	store, err := NewDocStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Write(testDoc("tom")))

	docs, err := store.List()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "tom", docs[0].Title)

	doc, err := store.Read(0)
	require.NoError(t, err)
	require.Equal(t, "Tom ran. Jerry ran.", doc.DocText)
	require.Len(t, doc.Sentences, 2)
	require.Equal(t, "nsubj", doc.Sentences[0][0].Rel)
}

func TestDocStoreListLabelsAfterReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDocStore(dir)
	require.NoError(t, err)

	doc := testDoc("tom")
	doc.Labels = []string{"fiction", "short"}
	require.NoError(t, store.Write(doc))

	reopened, err := NewDocStore(dir)
	require.NoError(t, err)

	docs, err := reopened.List()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, []string{"fiction", "short"}, docs[0].Labels)
}

func TestDocStoreReadOutOfRange(t *testing.T) {
	store, err := NewDocStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Read(3)
	require.Error(t, err)
}

func TestDocStoreFindCandidates(t *testing.T) {
	store, err := NewDocStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Write(testDoc("tom")))

	var hits []storage.SentenceResult
	cursor, err := store.FindCandidates([]string{"jerry", "run"}, 0, 10, func(res storage.SentenceResult) error {
		hits = append(hits, res)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, 1, hits[0].SentID)
	require.Equal(t, "tom", hits[0].DocTitle)

	// resuming after the cursor yields nothing new
	_, err = store.FindCandidates([]string{"jerry", "run"}, cursor, 10, func(res storage.SentenceResult) error {
		t.Fatalf("unexpected result after cursor: %+v", res)
		return nil
	})
	require.NoError(t, err)
}
