package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionIsVisiblePublicly(t *testing.T) {
	tests := []struct {
		name     string
		question Question
		want     bool
	}{
		{"public approved", Question{IsPublic: true, Status: StatusApproved}, true},
		{"public pending", Question{IsPublic: true, Status: StatusPending}, false},
		{"public denied", Question{IsPublic: true, Status: StatusDenied}, false},
		// A private question never enters the library even when its status
		// says APPROVED.
		{"private approved", Question{IsPublic: false, Status: StatusApproved}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.question.IsVisiblePublicly())
		})
	}
}

func TestQuestionVisibleTo(t *testing.T) {
	owner := Viewer{ID: 1}
	stranger := Viewer{ID: 2}
	admin := Viewer{ID: 3, IsAdmin: true}
	anonymous := Viewer{}

	pendingPublic := Question{OwnerID: 1, IsPublic: true, Status: StatusPending}
	assert.True(t, pendingPublic.VisibleTo(owner))
	assert.True(t, pendingPublic.VisibleTo(admin))
	assert.False(t, pendingPublic.VisibleTo(stranger))
	assert.False(t, pendingPublic.VisibleTo(anonymous))

	approvedPublic := Question{OwnerID: 1, IsPublic: true, Status: StatusApproved}
	assert.True(t, approvedPublic.VisibleTo(stranger))
	assert.True(t, approvedPublic.VisibleTo(anonymous))

	private := Question{OwnerID: 1, IsPublic: false, Status: StatusApproved}
	assert.True(t, private.VisibleTo(owner))
	assert.True(t, private.VisibleTo(admin))
	assert.False(t, private.VisibleTo(stranger))
	assert.False(t, private.VisibleTo(anonymous))
}

func TestQuestionOwnedBy(t *testing.T) {
	q := Question{OwnerID: 7}
	assert.True(t, q.OwnedBy(Viewer{ID: 7}))
	assert.False(t, q.OwnedBy(Viewer{ID: 8}))
	// Admins are not owners; admin powers are granted separately.
	assert.False(t, q.OwnedBy(Viewer{ID: 9, IsAdmin: true}))
	assert.False(t, q.OwnedBy(Viewer{}))
}

func TestAnswerVisibleTo(t *testing.T) {
	libraryQuestion := &Question{ID: 1, OwnerID: 1, IsPublic: true, Status: StatusApproved}
	privateQuestion := &Question{ID: 2, OwnerID: 1, IsPublic: false, Status: StatusApproved}

	own := Answer{UserID: 2, IsPublic: false}
	assert.True(t, own.VisibleTo(Viewer{ID: 2}, privateQuestion))
	assert.False(t, own.VisibleTo(Viewer{ID: 3}, privateQuestion))

	shared := Answer{UserID: 2, IsPublic: true}
	assert.True(t, shared.VisibleTo(Viewer{ID: 3}, libraryQuestion))
	assert.True(t, shared.VisibleTo(Viewer{}, libraryQuestion))
	// A shared answer stops being visible when its question leaves the
	// library.
	assert.False(t, shared.VisibleTo(Viewer{ID: 3}, privateQuestion))
	assert.False(t, shared.VisibleTo(Viewer{ID: 3}, nil))
}

func TestViewerFor(t *testing.T) {
	assert.Equal(t, Viewer{}, ViewerFor(nil))
	assert.True(t, ViewerFor(nil).Anonymous())

	v := ViewerFor(&User{ID: 5, IsAdmin: true})
	assert.Equal(t, uint(5), v.ID)
	assert.True(t, v.IsAdmin)
	assert.False(t, v.Anonymous())
}
