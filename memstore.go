package main

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore implements Store on mutex-guarded in-process maps. It backs the
// test suite and STORE=memory development mode, so it has to mirror the
// subset of MongoDB query/update semantics the service actually issues:
// equality (including dotted paths), $gte/$lte, regex matching, $or, and
// the $set/$unset/$addToSet/$pull update operators.
//
// Documents are normalized through a bson round-trip on the way in so that
// stored values carry the same dynamic types the driver would hand back
// (primitive.DateTime for times, primitive.A for arrays, and so on).
type memStore struct {
	mu          sync.RWMutex
	collections map[string]map[primitive.ObjectID]bson.M
}

func newMemStore() *memStore {
	return &memStore{collections: make(map[string]map[primitive.ObjectID]bson.M)}
}

func (s *memStore) coll(name string) map[primitive.ObjectID]bson.M {
	c, ok := s.collections[name]
	if !ok {
		c = make(map[primitive.ObjectID]bson.M)
		s.collections[name] = c
	}
	return c
}

func (s *memStore) Create(_ context.Context, collection string, doc bson.M) (primitive.ObjectID, error) {
	stored, err := cloneDocument(doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("inserting into %s: %w", collection, err)
	}
	id, ok := stored["_id"].(primitive.ObjectID)
	if !ok {
		id = primitive.NewObjectID()
		stored["_id"] = id
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coll(collection)[id] = stored
	return id, nil
}

func (s *memStore) Get(_ context.Context, collection string, id primitive.ObjectID) (bson.M, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.coll(collection)[id]
	if !ok {
		return nil, nil
	}
	return cloneDocument(doc)
}

func (s *memStore) GetAll(ctx context.Context, collection string) ([]bson.M, error) {
	return s.Search(ctx, collection, bson.M{})
}

func (s *memStore) Update(_ context.Context, collection string, id primitive.ObjectID, update bson.M) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.coll(collection)[id]
	if !ok {
		return 0, 0, nil
	}
	updated, err := cloneDocument(doc)
	if err != nil {
		return 0, 0, fmt.Errorf("updating %s: %w", collection, err)
	}
	changed, err := applyUpdate(updated, update)
	if err != nil {
		return 0, 0, fmt.Errorf("updating %s: %w", collection, err)
	}
	if !changed {
		return 1, 0, nil
	}
	s.coll(collection)[id] = updated
	return 1, 1, nil
}

func (s *memStore) Delete(_ context.Context, collection string, id primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.coll(collection)[id]; !ok {
		return 0, nil
	}
	delete(s.coll(collection), id)
	return 1, nil
}

func (s *memStore) Search(_ context.Context, collection string, filter bson.M) ([]bson.M, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]bson.M, 0)
	for _, doc := range s.coll(collection) {
		ok, err := matchFilter(doc, filter)
		if err != nil {
			return nil, fmt.Errorf("searching %s: %w", collection, err)
		}
		if !ok {
			continue
		}
		clone, err := cloneDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("searching %s: %w", collection, err)
		}
		docs = append(docs, clone)
	}
	return docs, nil
}

func (s *memStore) Close(context.Context) error {
	return nil
}

// cloneDocument deep-copies a document through a bson round-trip, which also
// normalizes value types (time.Time -> primitive.DateTime etc).
func cloneDocument(doc bson.M) (bson.M, error) {
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var clone bson.M
	if err := bson.Unmarshal(data, &clone); err != nil {
		return nil, err
	}
	return clone, nil
}

// normalizeValue converts a single value the same way cloneDocument would.
func normalizeValue(v any) (any, error) {
	doc, err := cloneDocument(bson.M{"v": v})
	if err != nil {
		return nil, err
	}
	return doc["v"], nil
}

func matchFilter(doc bson.M, filter bson.M) (bool, error) {
	for key, cond := range filter {
		switch key {
		case "$or":
			branches, ok := cond.([]bson.M)
			if !ok {
				return false, fmt.Errorf("$or expects []bson.M, got %T", cond)
			}
			matched := false
			for _, branch := range branches {
				ok, err := matchFilter(doc, branch)
				if err != nil {
					return false, err
				}
				if ok {
					matched = true
					break
				}
			}
			if !matched {
				return false, nil
			}
		case "$and":
			branches, ok := cond.([]bson.M)
			if !ok {
				return false, fmt.Errorf("$and expects []bson.M, got %T", cond)
			}
			for _, branch := range branches {
				ok, err := matchFilter(doc, branch)
				if err != nil {
					return false, err
				}
				if !ok {
					return false, nil
				}
			}
		default:
			actual, _ := lookupPath(doc, key)
			ok, err := matchValue(actual, cond)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
	}
	return true, nil
}

func matchValue(actual, cond any) (bool, error) {
	switch c := cond.(type) {
	case primitive.Regex:
		return regexMatch(actual, c)
	case bson.M:
		if isOperatorDoc(c) {
			return matchOperators(actual, c)
		}
		return equalValues(actual, c), nil
	default:
		return equalValues(actual, cond), nil
	}
}

func isOperatorDoc(m bson.M) bool {
	for k := range m {
		if strings.HasPrefix(k, "$") {
			return true
		}
	}
	return false
}

func matchOperators(actual any, ops bson.M) (bool, error) {
	for op, arg := range ops {
		switch op {
		case "$gte":
			cmp, ok := compareValues(actual, arg)
			if !ok || cmp < 0 {
				return false, nil
			}
		case "$lte":
			cmp, ok := compareValues(actual, arg)
			if !ok || cmp > 0 {
				return false, nil
			}
		case "$regex":
			pattern, _ := arg.(string)
			options, _ := ops["$options"].(string)
			return regexMatch(actual, primitive.Regex{Pattern: pattern, Options: options})
		case "$options":
			// handled together with $regex
		default:
			return false, fmt.Errorf("unsupported query operator %q", op)
		}
	}
	return true, nil
}

func regexMatch(actual any, re primitive.Regex) (bool, error) {
	s, ok := actual.(string)
	if !ok {
		return false, nil
	}
	pattern := re.Pattern
	if strings.Contains(re.Options, "i") {
		pattern = "(?i)" + pattern
	}
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Errorf("compiling pattern %q: %w", re.Pattern, err)
	}
	return compiled.MatchString(s), nil
}

// lookupPath resolves a possibly dotted field path against a document.
func lookupPath(doc bson.M, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var current any = doc
	for _, part := range parts {
		m, ok := current.(bson.M)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func setPath(doc bson.M, path string, value any) {
	parts := strings.Split(path, ".")
	current := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(bson.M)
		if !ok {
			next = bson.M{}
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

func unsetPath(doc bson.M, path string) bool {
	parts := strings.Split(path, ".")
	current := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(bson.M)
		if !ok {
			return false
		}
		current = next
	}
	leaf := parts[len(parts)-1]
	if _, ok := current[leaf]; !ok {
		return false
	}
	delete(current, leaf)
	return true
}

func applyUpdate(doc bson.M, update bson.M) (bool, error) {
	changed := false
	for op, arg := range update {
		fields, ok := arg.(bson.M)
		if !ok {
			return false, fmt.Errorf("%s expects a document, got %T", op, arg)
		}
		switch op {
		case "$set":
			for path, value := range fields {
				normalized, err := normalizeValue(value)
				if err != nil {
					return false, err
				}
				old, exists := lookupPath(doc, path)
				if exists && equalValues(old, normalized) {
					continue
				}
				setPath(doc, path, normalized)
				changed = true
			}
		case "$unset":
			for path := range fields {
				if unsetPath(doc, path) {
					changed = true
				}
			}
		case "$addToSet":
			for path, value := range fields {
				normalized, err := normalizeValue(value)
				if err != nil {
					return false, err
				}
				arr, _ := lookupPath(doc, path)
				elems, _ := arr.(primitive.A)
				if containsValue(elems, normalized) {
					continue
				}
				setPath(doc, path, append(elems, normalized))
				changed = true
			}
		case "$pull":
			for path, value := range fields {
				normalized, err := normalizeValue(value)
				if err != nil {
					return false, err
				}
				arr, _ := lookupPath(doc, path)
				elems, _ := arr.(primitive.A)
				kept := make(primitive.A, 0, len(elems))
				for _, elem := range elems {
					if equalValues(elem, normalized) {
						continue
					}
					kept = append(kept, elem)
				}
				if len(kept) != len(elems) {
					setPath(doc, path, kept)
					changed = true
				}
			}
		default:
			return false, fmt.Errorf("unsupported update operator %q", op)
		}
	}
	return changed, nil
}

func containsValue(elems primitive.A, value any) bool {
	for _, elem := range elems {
		if equalValues(elem, value) {
			return true
		}
	}
	return false
}

func equalValues(a, b any) bool {
	if cmp, ok := compareValues(a, b); ok {
		return cmp == 0
	}
	switch av := a.(type) {
	case primitive.ObjectID:
		bv, ok := b.(primitive.ObjectID)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return false
}

// compareValues orders two values when both are numeric, both are times, or
// both are strings. Numeric types are widened to float64; times (either
// time.Time or primitive.DateTime) to epoch milliseconds.
func compareValues(a, b any) (int, bool) {
	if af, ok := numericValue(a); ok {
		bf, ok := numericValue(b)
		if !ok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}
	if am, ok := timeMillis(a); ok {
		bm, ok := timeMillis(b)
		if !ok {
			return 0, false
		}
		switch {
		case am < bm:
			return -1, true
		case am > bm:
			return 1, true
		}
		return 0, true
	}
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(as, bs), true
	}
	return 0, false
}

func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func timeMillis(v any) (int64, bool) {
	switch t := v.(type) {
	case primitive.DateTime:
		return int64(t), true
	case time.Time:
		return t.UnixMilli(), true
	}
	return 0, false
}
