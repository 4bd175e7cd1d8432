// Package visibility decides which articles and comments a viewer may see.
//
// The functions here are pure: they take the social graph as plain values and
// never touch the store. Repositories push the same rules down into SQL; these
// implementations are the reference those queries are tested against.
package visibility

import (
	"sort"

	"inkwell/internal/models"
)

// Viewer identifies who is looking. The zero value is an anonymous visitor.
type Viewer uint

// Anonymous is the viewer with no identity.
const Anonymous Viewer = 0

// Authenticated reports whether the viewer has an identity.
func (v Viewer) Authenticated() bool { return v != Anonymous }

// ID returns the viewer's user id, 0 when anonymous.
func (v Viewer) ID() uint { return uint(v) }

// Authored is anything written by a single user.
type Authored interface {
	AuthorID() uint
}

// BlockSet holds the block edges touching one viewer, in both directions.
type BlockSet struct {
	blocking  map[uint]struct{}
	blockedBy map[uint]struct{}
}

// NewBlockSet indexes the block edges that involve viewer. Edges between other
// users are ignored.
func NewBlockSet(viewer Viewer, edges []models.Block) BlockSet {
	set := BlockSet{
		blocking:  make(map[uint]struct{}),
		blockedBy: make(map[uint]struct{}),
	}
	if !viewer.Authenticated() {
		return set
	}
	id := viewer.ID()
	for _, e := range edges {
		switch {
		case e.BlockerID == id && e.BlockedID != id:
			set.blocking[e.BlockedID] = struct{}{}
		case e.BlockedID == id && e.BlockerID != id:
			set.blockedBy[e.BlockerID] = struct{}{}
		}
	}
	return set
}

// Excludes reports whether content by author is hidden from the viewer the
// set was built for: either side blocking the other is enough.
func (b BlockSet) Excludes(author uint) bool {
	if _, ok := b.blocking[author]; ok {
		return true
	}
	_, ok := b.blockedBy[author]
	return ok
}

// Filter returns the items visible to viewer, keeping their order.
// Anonymous viewers see everything. Items the viewer wrote are never dropped.
func Filter[T Authored](viewer Viewer, items []T, blocks BlockSet) []T {
	if !viewer.Authenticated() {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		author := item.AuthorID()
		if author != viewer.ID() && blocks.Excludes(author) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// FilterComments applies the mutual-block rule to a comment thread.
func FilterComments(viewer Viewer, comments []models.Comment, blocks BlockSet) []models.Comment {
	return Filter(viewer, comments, blocks)
}

// FeedOwners returns the users whose articles make up viewer's listing:
// the viewer, everyone they follow and everyone following them. No block
// filtering is applied here; blocks only hide comments.
func FeedOwners(viewer Viewer, followings, followers []uint) []uint {
	if !viewer.Authenticated() {
		return nil
	}
	seen := map[uint]struct{}{viewer.ID(): {}}
	owners := []uint{viewer.ID()}
	for _, group := range [][]uint{followings, followers} {
		for _, id := range group {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			owners = append(owners, id)
		}
	}
	return owners
}

// MergeFeed unions article lists, dropping duplicate ids, newest first.
// Equal timestamps fall back to the higher id first.
func MergeFeed(lists ...[]models.Article) []models.Article {
	seen := make(map[uint]struct{})
	var merged []models.Article
	for _, list := range lists {
		for _, a := range list {
			if _, dup := seen[a.ID]; dup {
				continue
			}
			seen[a.ID] = struct{}{}
			merged = append(merged, a)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].CreatedAt.Equal(merged[j].CreatedAt) {
			return merged[i].ID > merged[j].ID
		}
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged
}

// Feed selects from candidates the articles owned by owners, newest first.
func Feed(owners []uint, candidates []models.Article) []models.Article {
	allowed := make(map[uint]struct{}, len(owners))
	for _, id := range owners {
		allowed[id] = struct{}{}
	}
	var picked []models.Article
	for _, a := range candidates {
		if _, ok := allowed[a.UserID]; ok {
			picked = append(picked, a)
		}
	}
	return MergeFeed(picked)
}
