package database

import (
	"gorm.io/gorm"
)

// Full-text search support. The tsvector columns are deliberately not part
// of the GORM model mapping: they exist only on Postgres and are written by
// the repositories inside the same transaction as the row they index. On any
// other store (sqlite in tests) IsPostgres reports false and the query
// builder uses substring matching instead.

// IsPostgres reports whether the connected store is Postgres and therefore
// supports tsvector search.
func IsPostgres(db *gorm.DB) bool {
	return db != nil && db.Dialector.Name() == "postgres"
}

// EnsureSearchIndexes creates the search_vector columns and their GIN
// indexes. No-op on non-Postgres stores.
func EnsureSearchIndexes(db *gorm.DB) error {
	if !IsPostgres(db) {
		return nil
	}

	stmts := []string{
		`ALTER TABLE questions ADD COLUMN IF NOT EXISTS search_vector tsvector`,
		`ALTER TABLE answers ADD COLUMN IF NOT EXISTS search_vector tsvector`,
		`CREATE INDEX IF NOT EXISTS idx_questions_search_vector ON questions USING GIN (search_vector)`,
		`CREATE INDEX IF NOT EXISTS idx_answers_search_vector ON answers USING GIN (search_vector)`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// RefreshQuestionVector rewrites one question's search vector from its title
// and body, title weighted higher. Must run inside the transaction that
// wrote the row so search reflects the change on the next read.
func RefreshQuestionVector(tx *gorm.DB, questionID uint) error {
	if !IsPostgres(tx) {
		return nil
	}
	return tx.Exec(`
		UPDATE questions
		SET search_vector =
			setweight(to_tsvector('english', coalesce(title, '')), 'A') ||
			setweight(to_tsvector('english', coalesce(body, '')), 'B')
		WHERE id = ?`, questionID).Error
}

// RefreshAnswerVector rewrites one answer's search vector from the given
// variant text.
func RefreshAnswerVector(tx *gorm.DB, answerID uint, text string) error {
	if !IsPostgres(tx) {
		return nil
	}
	return tx.Exec(`
		UPDATE answers
		SET search_vector = setweight(to_tsvector('english', coalesce(?, '')), 'A')
		WHERE id = ?`, text, answerID).Error
}

// EnsureTagConstraints adds the partial unique index guarding public tag
// names. The (name, owner_id) index does not cover public rows because NULL
// owner_id values compare distinct, so without this two public tags could
// share a name. No-op on non-Postgres stores; sqlite in tests relies on the
// repository's public-first resolution instead.
func EnsureTagConstraints(db *gorm.DB) error {
	if !IsPostgres(db) {
		return nil
	}
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_public_tag_name ON tags (lower(name)) WHERE is_public`,
	).Error
}

// ReindexAll rebuilds every search vector. Used by cmd/reindex after bulk
// imports or when the weighting scheme changes.
func ReindexAll(db *gorm.DB) (int64, error) {
	if !IsPostgres(db) {
		return 0, nil
	}

	q := db.Exec(`
		UPDATE questions
		SET search_vector =
			setweight(to_tsvector('english', coalesce(title, '')), 'A') ||
			setweight(to_tsvector('english', coalesce(body, '')), 'B')`)
	if q.Error != nil {
		return 0, q.Error
	}
	rows := q.RowsAffected

	a := db.Exec(`
		UPDATE answers
		SET search_vector = setweight(to_tsvector('english',
			coalesce(CASE WHEN type = 'STAR'
				THEN situation || ' ' || task || ' ' || action || ' ' || result
				ELSE text END, '')), 'A')`)
	if a.Error != nil {
		return rows, a.Error
	}
	return rows + a.RowsAffected, nil
}
