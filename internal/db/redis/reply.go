package redis

import (
	"math"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/vecrag/internal/db"
)

// kind tags a reply element by wire shape, independent of position.
type kind int

const (
	kindMissing kind = iota // past the end of the reply
	kindNil
	kindScalar
	kindList
	kindMap
	kindOther
)

// element is one decoded reply element.
type element struct {
	kind   kind
	scalar string
	list   []rueidis.RedisMessage
	fields map[string]rueidis.RedisMessage
}

func classify(m *rueidis.RedisMessage) element {
	switch {
	case m.IsNil():
		return element{kind: kindNil}
	case m.IsArray():
		vals, _ := m.ToArray()
		return element{kind: kindList, list: vals}
	case m.IsMap():
		fields, _ := m.ToMap()
		return element{kind: kindMap, fields: fields}
	}
	if s, ok := scalarString(m); ok {
		return element{kind: kindScalar, scalar: s}
	}
	return element{kind: kindOther}
}

// scalarString renders strings, integers and doubles; anything else is not a scalar.
func scalarString(m *rueidis.RedisMessage) (string, bool) {
	switch {
	case m.IsString():
		s, err := m.ToString()
		return s, err == nil
	case m.IsInt64():
		n, err := m.AsInt64()
		return strconv.FormatInt(n, 10), err == nil
	case m.IsFloat64():
		f, err := m.AsFloat64()
		return strconv.FormatFloat(f, 'g', -1, 64), err == nil
	}
	return "", false
}

func finiteFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// cursor walks the flat reply; every read consumes exactly one element.
type cursor struct {
	elems []rueidis.RedisMessage
	pos   int
}

func (c *cursor) peek() element {
	if c.pos >= len(c.elems) {
		return element{kind: kindMissing}
	}
	return classify(&c.elems[c.pos])
}

func (c *cursor) next() element {
	e := c.peek()
	if e.kind != kindMissing {
		c.pos++
	}
	return e
}

func (c *cursor) remaining() int { return len(c.elems) - c.pos }

// replyFields names the fields a hit's field list is matched against.
type replyFields struct {
	text  string
	score string
}

// parseKNNReply decodes [total, id, (score), fields, id, (score), fields, ...].
//
// A null or empty reply, or a total of 0, is an empty result. A hit that
// cannot be read stops the walk and the hits decoded so far are returned.
func parseKNNReply(msg *rueidis.RedisMessage, names replyFields) (*db.SearchResult, error) {
	if msg == nil || msg.IsNil() {
		return &db.SearchResult{}, nil
	}
	if !msg.IsArray() {
		return nil, &db.ReplyError{Op: db.OpSearch, Reason: "top-level reply is not an array"}
	}
	elems, _ := msg.ToArray()
	if len(elems) == 0 {
		return &db.SearchResult{}, nil
	}

	c := &cursor{elems: elems}
	head := c.next()
	if head.kind != kindScalar {
		return nil, &db.ReplyError{Op: db.OpSearch, Reason: "missing total count"}
	}
	total, err := strconv.ParseInt(head.scalar, 10, 64)
	if err != nil || total < 0 {
		return nil, &db.ReplyError{Op: db.OpSearch, Reason: "total count " + strconv.Quote(head.scalar) + " is not a non-negative integer"}
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	res := &db.SearchResult{Total: int(total), Entries: make([]db.SearchEntry, 0, min(total, int64(c.remaining())))}
	for {
		entry, ok := readHit(c, names)
		if !ok {
			break
		}
		res.Entries = append(res.Entries, entry)
	}
	return res, nil
}

func readHit(c *cursor, names replyFields) (db.SearchEntry, bool) {
	id := c.next()
	if id.kind != kindScalar || id.scalar == "" {
		return db.SearchEntry{}, false
	}
	entry := db.SearchEntry{Key: id.scalar, Score: math.NaN()}

	// A standalone score is only taken when a fields element still follows it;
	// otherwise the scalar is this hit's bare field value.
	if p := c.peek(); p.kind == kindScalar && c.remaining() > 1 {
		if f, ok := finiteFloat(p.scalar); ok {
			entry.Score = f
			c.next()
		}
	}

	fields := c.peek()
	switch fields.kind {
	case kindMissing:
		// Truncated reply: an id with nothing after it is not a hit.
		return db.SearchEntry{}, false
	case kindList:
		c.next()
		applyPairs(&entry, fields.list, names)
	case kindMap:
		c.next()
		for name, v := range fields.fields {
			if s, ok := scalarString(&v); ok {
				applyField(&entry, name, s, names)
			}
		}
	case kindNil:
		c.next()
	case kindScalar:
		c.next()
		entry.Text = fields.scalar
	}
	return entry, true
}

func applyPairs(entry *db.SearchEntry, list []rueidis.RedisMessage, names replyFields) {
	for i := 0; i+1 < len(list); i += 2 {
		name, ok := scalarString(&list[i])
		if !ok {
			continue
		}
		value, ok := scalarString(&list[i+1])
		if !ok {
			continue
		}
		applyField(entry, name, value, names)
	}
}

func applyField(entry *db.SearchEntry, name, value string, names replyFields) {
	switch {
	case name == names.text:
		entry.Text = value
	case name == names.score || name == "score":
		// The aliased distance is what SORTBY used, so it wins over a standalone score.
		if f, ok := finiteFloat(value); ok {
			entry.Score = f
		}
	}
}
