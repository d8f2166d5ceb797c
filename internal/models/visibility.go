package models

// Visibility rules. These are pure predicates over (resource, viewer); the
// repository composes the equivalent SQL for set-level queries, and handlers
// translate a false result on a read path into NOT_FOUND so that existence
// is never distinguishable from lack of permission.

// IsVisiblePublicly reports whether the question is part of the shared
// library: the owner opted in and a moderator approved it. Private questions
// are never publicly visible regardless of status.
func (q *Question) IsVisiblePublicly() bool {
	return q.IsPublic && q.Status == StatusApproved
}

// VisibleTo reports whether the viewer may see this question: the owner
// always, admins always, everyone else only when it is publicly visible.
func (q *Question) VisibleTo(v Viewer) bool {
	if v.IsAdmin {
		return true
	}
	if !v.Anonymous() && v.ID == q.OwnerID {
		return true
	}
	return q.IsVisiblePublicly()
}

// OwnedBy reports strict ownership. Edit/delete paths require this (or
// admin), never mere visibility.
func (q *Question) OwnedBy(v Viewer) bool {
	return !v.Anonymous() && v.ID == q.OwnerID
}

// VisibleTo reports whether the viewer may see this answer. The answer's
// question must be supplied because a public answer is only visible while
// its question is publicly visible. Anonymous viewers only ever reach the
// public branch.
func (a *Answer) VisibleTo(v Viewer, q *Question) bool {
	if !v.Anonymous() && v.ID == a.UserID {
		return true
	}
	return a.IsPublic && q != nil && q.IsVisiblePublicly()
}

// OwnedBy reports strict ownership of the answer.
func (a *Answer) OwnedBy(v Viewer) bool {
	return !v.Anonymous() && v.ID == a.UserID
}
