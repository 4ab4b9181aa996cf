package kvpairs

import (
	"encoding/json"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// A parsed document kept in the store
type Document struct {
	gorm.Model

	// Public identifier of the document
	Serial string `gorm:"uniqueIndex"`
	// Name of the document. Importing a document with the same
	// name replaces it
	Name string `gorm:"uniqueIndex"`
	// Where the document was read from
	Source string
	// md5 of the document text
	Hash    string
	Entries []*Entry `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
}

// One key of a document and its values
type Entry struct {
	gorm.Model

	DocumentID uint   `gorm:"index"`
	Key        string `gorm:"index"`
	Values     datatypes.JSON
}

func newEntry(key string, values []int32) (*Entry, error) {
	if values == nil {
		values = []int32{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode values of %s", key)
	}
	return &Entry{Key: key, Values: datatypes.JSON(data)}, nil
}

func (e *Entry) decode() ([]int32, error) {
	values := []int32{}
	if len(e.Values) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(e.Values, &values); err != nil {
		return nil, errors.Wrapf(err, "failed to decode values of %s", e.Key)
	}
	return values, nil
}

// Rebuilds the mapping stored for the document
func (d *Document) Pairs() (Pairs, error) {
	pairs := make(Pairs, len(d.Entries))
	for _, e := range d.Entries {
		values, err := e.decode()
		if err != nil {
			return nil, err
		}
		pairs[e.Key] = values
	}
	return pairs, nil
}
