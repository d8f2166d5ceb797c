package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	publicListKeyPrefix = "questions:public:%s"
	questionKeyPrefix   = "question:%d"
	userKeyPrefix       = "user:%d"
)

const (
	// PublicListTTL is short: the public library changes on every approval.
	PublicListTTL = 2 * time.Minute
	QuestionTTL   = 10 * time.Minute
	UserTTL       = 15 * time.Minute
)

// PublicListKey keys a page of the public question library by its canonical
// query string (tag/search/sort/page).
func PublicListKey(query string) string {
	return fmt.Sprintf(publicListKeyPrefix, query)
}

// QuestionKey keys a single publicly visible question.
func QuestionKey(id uint) string {
	return fmt.Sprintf(questionKeyPrefix, id)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateQuestion drops a cached question detail.
func InvalidateQuestion(ctx context.Context, id uint) {
	Invalidate(ctx, QuestionKey(id))
}

// UserKey keys a cached user profile.
func UserKey(id uint) string {
	return fmt.Sprintf(userKeyPrefix, id)
}

// InvalidateUser drops a cached user after a profile write.
func InvalidateUser(ctx context.Context, id uint) {
	Invalidate(ctx, UserKey(id))
}

// InvalidatePublicLists drops every cached page of the public library.
// Called whenever a public question is created, edited, approved, denied or
// deleted.
func InvalidatePublicLists(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, fmt.Sprintf(publicListKeyPrefix, "*"), 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
