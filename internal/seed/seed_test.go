package seed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/artist-atlas/backend/internal/comments"
	"github.com/artist-atlas/backend/internal/models"
	"github.com/artist-atlas/backend/internal/seed"
	"github.com/artist-atlas/backend/internal/testutil"
)

func strPtr(s string) *string { return &s }

func seedLookups(t *testing.T, db *gorm.DB) {
	t.Helper()
	users := []models.User{
		{Username: "dana", Email: "dana@example.com", Password: "x"},
		{Username: "noam", Email: "noam@example.com", Password: "x"},
	}
	for i := range users {
		require.NoError(t, db.Create(&users[i]).Error)
	}
	artist := models.Artist{NameEng: "Static Sky", NameHeb: "שמיים סטטיים", Area: "center"}
	require.NoError(t, db.Create(&artist).Error)
}

func commentByText(t *testing.T, db *gorm.DB, text string) *models.Comment {
	t.Helper()
	var comment models.Comment
	require.NoError(t, db.Where("text = ?", text).First(&comment).Error)
	return &comment
}

func TestImportCommentsLinksReplyChain(t *testing.T) {
	db := testutil.StartPostgres(t)
	seedLookups(t, db)

	records := []seed.Record{
		// Out of position order on purpose; the importer sorts per thread.
		{ThreadID: 1, ThreadPosition: 3, UserUsername: "dana", ArtistName: "static sky", Text: "C", ReplyToText: strPtr("B")},
		{ThreadID: 1, ThreadPosition: 1, UserUsername: "dana", ArtistName: "Static Sky", Text: "A"},
		{ThreadID: 1, ThreadPosition: 2, UserUsername: "noam", ArtistName: "שמיים סטטיים", Text: "B", ReplyToText: strPtr("A")},
	}

	require.NoError(t, seed.ImportComments(db, records))

	a := commentByText(t, db, "A")
	b := commentByText(t, db, "B")
	c := commentByText(t, db, "C")

	assert.Nil(t, a.ParentID)
	require.NotNil(t, b.ParentID)
	assert.Equal(t, a.ID, *b.ParentID)
	require.NotNil(t, c.ParentID)
	assert.Equal(t, b.ID, *c.ParentID)
}

func TestImportCommentsSkipsUnresolvedRecords(t *testing.T) {
	db := testutil.StartPostgres(t)
	seedLookups(t, db)

	records := []seed.Record{
		{ThreadID: 1, ThreadPosition: 1, UserUsername: "ghost", ArtistName: "Static Sky", Text: "A"},
		{ThreadID: 1, ThreadPosition: 2, UserUsername: "dana", ArtistName: "Static Sky", Text: "B", ReplyToText: strPtr("A")},
		{ThreadID: 1, ThreadPosition: 3, UserUsername: "noam", ArtistName: "No Such Band", Text: "C"},
		{ThreadID: 1, ThreadPosition: 4, UserUsername: "noam", ArtistName: "Static Sky", Text: "D", ReplyToText: strPtr("B")},
	}

	require.NoError(t, seed.ImportComments(db, records))

	// The unresolvable records never made it in; the rest of the thread did.
	var count int64
	db.Model(&models.Comment{}).Count(&count)
	assert.EqualValues(t, 2, count)

	// B's antecedent was skipped, so B stays top-level. D still links to B.
	b := commentByText(t, db, "B")
	assert.Nil(t, b.ParentID)
	d := commentByText(t, db, "D")
	require.NotNil(t, d.ParentID)
	assert.Equal(t, b.ID, *d.ParentID)
}

func TestImportCommentsGuardSkipsNonEmptyStore(t *testing.T) {
	db := testutil.StartPostgres(t)
	seedLookups(t, db)

	records := []seed.Record{
		{ThreadID: 1, ThreadPosition: 1, UserUsername: "dana", ArtistName: "Static Sky", Text: "A"},
	}
	require.NoError(t, seed.ImportComments(db, records))

	var before int64
	db.Model(&models.Comment{}).Count(&before)

	// A second run finds a non-empty store and must not touch it.
	require.NoError(t, seed.ImportComments(db, records))

	var after int64
	db.Model(&models.Comment{}).Count(&after)
	assert.Equal(t, before, after)
}

func TestImportCommentsRefusesSelfAndForwardReferences(t *testing.T) {
	db := testutil.StartPostgres(t)
	seedLookups(t, db)

	records := []seed.Record{
		// A names its own text; B names a text that only appears later in
		// the thread. Neither is a legitimate antecedent — both must stay
		// top-level instead of becoming a self-link or a downstream link.
		{ThreadID: 1, ThreadPosition: 1, UserUsername: "dana", ArtistName: "Static Sky", Text: "A", ReplyToText: strPtr("A")},
		{ThreadID: 1, ThreadPosition: 2, UserUsername: "noam", ArtistName: "Static Sky", Text: "B", ReplyToText: strPtr("C")},
		{ThreadID: 1, ThreadPosition: 3, UserUsername: "dana", ArtistName: "Static Sky", Text: "C", ReplyToText: strPtr("A")},
	}

	require.NoError(t, seed.ImportComments(db, records))

	a := commentByText(t, db, "A")
	assert.Nil(t, a.ParentID)
	b := commentByText(t, db, "B")
	assert.Nil(t, b.ParentID)

	// The backward reference still links.
	cRec := commentByText(t, db, "C")
	require.NotNil(t, cRec.ParentID)
	assert.Equal(t, a.ID, *cRec.ParentID)

	// And the stored rows build a complete forest.
	var all []models.Comment
	require.NoError(t, db.Find(&all).Error)
	forest := comments.BuildForest(all)
	total := 0
	var count func(nodes []*comments.ThreadNode)
	count = func(nodes []*comments.ThreadNode) {
		for _, node := range nodes {
			total++
			count(node.Children)
		}
	}
	count(forest)
	assert.Equal(t, len(all), total)
	assert.Len(t, forest, 2)
}

func TestImportCommentsKeepsThreadsApart(t *testing.T) {
	db := testutil.StartPostgres(t)
	seedLookups(t, db)

	// Identical text in two threads: each reply must link within its own
	// thread, not across.
	records := []seed.Record{
		{ThreadID: 1, ThreadPosition: 1, UserUsername: "dana", ArtistName: "Static Sky", Text: "agreed"},
		{ThreadID: 2, ThreadPosition: 1, UserUsername: "noam", ArtistName: "Static Sky", Text: "agreed"},
		{ThreadID: 2, ThreadPosition: 2, UserUsername: "dana", ArtistName: "Static Sky", Text: "same here", ReplyToText: strPtr("agreed")},
	}

	require.NoError(t, seed.ImportComments(db, records))

	reply := commentByText(t, db, "same here")
	require.NotNil(t, reply.ParentID)

	var parent models.Comment
	require.NoError(t, db.First(&parent, *reply.ParentID).Error)
	var noam models.User
	require.NoError(t, db.Where("username = ?", "noam").First(&noam).Error)
	assert.Equal(t, noam.ID, parent.AuthorID)
}
