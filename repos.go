package kvpairs

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DatabaseLocation = string

const (
	NO_DATABASE       DatabaseLocation = ""
	INMEMORY_DATABASE DatabaseLocation = ":memory:"
)

var ErrNotFound = errors.New("document not found")

type Repository interface {
	WithTransaction(fn func(*gorm.DB) error) error
	Close() error
	connect() (*gorm.DB, error)
}

type repository struct {
	db *gorm.DB

	location string
	config   *gorm.Config
	models   []any
}

func NewRepository(location string) *repository {
	return &repository{
		location: location,
		config: &gorm.Config{
			SkipDefaultTransaction: true,
			PrepareStmt:            true,
			Logger:                 logger.Default.LogMode(logger.Silent),
		},
		models: []any{&Document{}, &Entry{}},
	}
}

// do whatever within a separate transaction
func (r *repository) WithTransaction(fn func(conn *gorm.DB) error) error {
	if _, err := r.connect(); err != nil {
		return err
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

func (r *repository) connect() (*gorm.DB, error) {
	if r.db != nil {
		return r.db, nil
	}
	if r.location == NO_DATABASE {
		return nil, errors.New("no database location configured")
	}

	db, err := gorm.Open(sqlite.Open(r.location), r.config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}

	db = db.Exec("PRAGMA foreign_keys = ON")
	if err := db.AutoMigrate(r.models...); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}
	r.db = db

	log.Debug().Str("database", r.location).Msg("connected to document store")
	return db, nil
}

func (r *repository) Close() error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	r.db = nil
	return sqlDB.Close()
}

type DocumentRepo struct {
	Repository
}

func NewDocumentRepo(location string) *DocumentRepo {
	return &DocumentRepo{NewRepository(location)}
}

// Stores a parsed document. A document with the same name is replaced,
// entries included.
func (r *DocumentRepo) Save(name, source, text string, pairs Pairs) (*Document, error) {
	var doc Document
	err := r.WithTransaction(func(conn *gorm.DB) error {
		q := conn.Where(Document{Name: name}).
			Attrs(Document{Serial: uuid.New().String()}).
			FirstOrCreate(&doc)
		if err := q.Error; err != nil {
			return errors.Wrapf(err, "failed to create document %s", name)
		}

		if err := conn.Unscoped().Where("document_id = ?", doc.ID).Delete(&Entry{}).Error; err != nil {
			return errors.Wrapf(err, "failed to clear entries of %s", name)
		}

		doc.Source = source
		doc.Hash = hash(text)
		doc.Entries = nil
		for _, key := range pairs.Keys() {
			e, err := newEntry(key, pairs[key])
			if err != nil {
				return err
			}
			e.DocumentID = doc.ID
			doc.Entries = append(doc.Entries, e)
		}

		if err := conn.Save(&doc).Error; err != nil {
			return errors.Wrapf(err, "failed to save document %s", name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug().Str("name", name).Str("serial", doc.Serial).Int("keys", len(pairs)).Msg("document saved")
	return &doc, nil
}

func (r *DocumentRepo) Find(name string) (*Document, error) {
	var doc Document
	err := r.WithTransaction(func(conn *gorm.DB) error {
		q := conn.Preload("Entries").Where("name = ?", name).Limit(1).Find(&doc)
		if err := q.Error; err != nil {
			return errors.Wrapf(err, "failed to find document %s", name)
		}
		if q.RowsAffected == 0 {
			return errors.Wrap(ErrNotFound, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Lists the documents whose name matches any of the glob patterns, or all
// of them when no pattern is given.
func (r *DocumentRepo) List(patterns ...string) ([]*Document, error) {
	var docs []*Document
	err := r.WithTransaction(func(conn *gorm.DB) error {
		q := conn.Preload("Entries").Order("name")
		if len(patterns) > 0 {
			cond := conn.Where(`name LIKE ? ESCAPE '\'`, globToSQLLike(patterns[0]))
			for _, p := range patterns[1:] {
				cond = cond.Or(`name LIKE ? ESCAPE '\'`, globToSQLLike(p))
			}
			q = q.Where(cond)
		}
		if err := q.Find(&docs).Error; err != nil {
			return errors.Wrap(err, "failed to list documents")
		}
		return nil
	})
	return docs, err
}

// Removes documents and their entries. Returns how many were removed.
func (r *DocumentRepo) Remove(names ...string) (int64, error) {
	var removed int64
	err := r.WithTransaction(func(conn *gorm.DB) error {
		var ids []uint
		if err := conn.Model(&Document{}).Where("name IN ?", names).Pluck("id", &ids).Error; err != nil {
			return errors.Wrap(err, "failed to search documents")
		}
		if len(ids) == 0 {
			return nil
		}
		if err := conn.Unscoped().Where("document_id IN ?", ids).Delete(&Entry{}).Error; err != nil {
			return errors.Wrap(err, "failed to remove entries")
		}
		q := conn.Unscoped().Where("id IN ?", ids).Delete(&Document{})
		if err := q.Error; err != nil {
			return errors.Wrap(err, "failed to remove documents")
		}
		removed = q.RowsAffected
		return nil
	})
	return removed, err
}

func globToSQLLike(glob string) string {
	// Escape SQL LIKE wildcards
	glob = strings.ReplaceAll(glob, "%", "\\%")
	glob = strings.ReplaceAll(glob, "_", "\\_")
	// Convert glob wildcards to SQL LIKE
	glob = strings.ReplaceAll(glob, "*", "%")
	glob = strings.ReplaceAll(glob, "?", "_")
	return glob
}
