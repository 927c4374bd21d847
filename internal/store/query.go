package store

import "strings"

// FindByField returns every record whose field equals value. Records without
// the field never match.
func (s *Store) FindByField(collection, field string, value any) ([]Document, error) {
	docs, err := s.load(collection)
	if err != nil {
		return nil, err
	}
	out := make([]Document, 0)
	for _, d := range docs {
		if v, ok := d[field]; ok && valuesEqual(v, value) {
			out = append(out, d)
		}
	}
	return out, nil
}

// FindOneByField returns the first record whose field equals value, or nil.
func (s *Store) FindOneByField(collection, field string, value any) (Document, error) {
	docs, err := s.load(collection)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		if v, ok := d[field]; ok && valuesEqual(v, value) {
			return d, nil
		}
	}
	return nil, nil
}

// Search returns records where any of fields contains query, ignoring case.
// Each record appears at most once, in storage order.
func (s *Store) Search(collection, query string, fields []string) ([]Document, error) {
	docs, err := s.load(collection)
	if err != nil {
		return nil, err
	}
	term := strings.ToLower(query)
	out := make([]Document, 0)
	for _, d := range docs {
		for _, f := range fields {
			v, ok := d[f]
			if !ok {
				continue
			}
			if strings.Contains(strings.ToLower(stringify(v)), term) {
				out = append(out, d)
				break
			}
		}
	}
	return out, nil
}
