package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mertkaraca/folio/internal/models"
)

// entitySchema describes how one source type maps onto its content and
// translation tables. Table and column names here are constants, never
// user input, so building SQL with Sprintf is safe.
type entitySchema struct {
	table    string
	trTable  string
	fkColumn string
	// translation text columns in the order title-ish, description-ish,
	// content-ish for that type
	fields   [3]string
	eligible string // SQL predicate for embedding eligibility, "" = always eligible
}

var entitySchemas = map[string]entitySchema{
	models.SourceTypeProject: {
		table:    "projects",
		trTable:  "project_translations",
		fkColumn: "project_id",
		fields:   [3]string{"title", "short_description", "full_description"},
		eligible: "e.status = 'Completed'",
	},
	models.SourceTypeBlog: {
		table:    "blog_posts",
		trTable:  "blog_post_translations",
		fkColumn: "post_id",
		fields:   [3]string{"title", "description", "content"},
		eligible: "e.status = 'published'",
	},
	models.SourceTypeProfile: {
		table:    "profiles",
		trTable:  "profile_translations",
		fkColumn: "profile_id",
		fields:   [3]string{"title", "summary", "bio"},
	},
	models.SourceTypeExperience: {
		table:    "work_experiences",
		trTable:  "work_experience_translations",
		fkColumn: "experience_id",
		fields:   [3]string{"position", "company", "description"},
	},
}

func schemaFor(sourceType string) (entitySchema, error) {
	s, ok := entitySchemas[sourceType]
	if !ok {
		return entitySchema{}, fmt.Errorf("unknown source type: %q", sourceType)
	}
	return s, nil
}

// FindEntitiesByType loads all entities of one type with translations
// eagerly joined. Translation order follows translation creation time,
// which keeps the resolver's last-resort fallback deterministic.
func (c *Client) FindEntitiesByType(ctx context.Context, sourceType string, eligibleOnly bool) ([]models.Entity, error) {
	s, err := schemaFor(sourceType)
	if err != nil {
		return nil, err
	}

	where := ""
	if eligibleOnly && s.eligible != "" {
		where = "WHERE " + s.eligible
	}

	q := fmt.Sprintf(`
		SELECT e.id, e.status, e.updated_at, t.language, t.%s, t.%s, t.%s
		FROM %s e
		LEFT JOIN %s t ON t.%s = e.id
		%s
		ORDER BY e.created_at ASC, e.id ASC, t.created_at ASC
	`, s.fields[0], s.fields[1], s.fields[2], s.table, s.trTable, s.fkColumn, where)

	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntities(rows, sourceType, s)
}

// FindEntityByID loads one entity with translations, or nil when the id
// does not exist.
func (c *Client) FindEntityByID(ctx context.Context, sourceType, id string) (*models.Entity, error) {
	s, err := schemaFor(sourceType)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		SELECT e.id, e.status, e.updated_at, t.language, t.%s, t.%s, t.%s
		FROM %s e
		LEFT JOIN %s t ON t.%s = e.id
		WHERE e.id = $1
		ORDER BY t.created_at ASC
	`, s.fields[0], s.fields[1], s.fields[2], s.table, s.trTable, s.fkColumn)

	rows, err := c.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entities, err := scanEntities(rows, sourceType, s)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, nil
	}
	return &entities[0], nil
}

// scanEntities folds joined entity/translation rows into entities,
// relying on the ORDER BY id grouping of the queries above. A LEFT JOIN
// row without a translation has a NULL language.
func scanEntities(rows *sql.Rows, sourceType string, s entitySchema) ([]models.Entity, error) {
	var out []models.Entity
	byID := map[string]int{}

	for rows.Next() {
		var (
			e        models.Entity
			status   sql.NullString
			language sql.NullString
			f0, f1   sql.NullString
			f2       sql.NullString
		)
		if err := rows.Scan(&e.ID, &status, &e.UpdatedAt, &language, &f0, &f1, &f2); err != nil {
			return nil, err
		}

		idx, seen := byID[e.ID]
		if !seen {
			e.Type = sourceType
			e.Status = status.String
			out = append(out, e)
			idx = len(out) - 1
			byID[e.ID] = idx
		}

		if language.Valid {
			out[idx].Translations = append(out[idx].Translations, models.Translation{
				Language: language.String,
				Fields: map[string]string{
					s.fields[0]: f0.String,
					s.fields[1]: f1.String,
					s.fields[2]: f2.String,
				},
			})
		}
	}
	return out, rows.Err()
}
