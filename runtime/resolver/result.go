package resolver

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/fxamacker/cbor/v2"
)

// Pair is a query before and after resolution.
type Pair struct {
	Original string
	Resolved string
}

// Subsearch is an extracted unit, identified by the hash of its original text.
type Subsearch struct {
	ID string
	Pair
}

// Result is the service form of one query. Subsearches are in registration
// order, innermost first.
type Result struct {
	Search      Pair
	Subsearches []Subsearch
}

// Subsearch returns the pair registered under id.
func (r *Result) Subsearch(id string) (Pair, bool) {
	for _, s := range r.Subsearches {
		if s.ID == id {
			return s.Pair, true
		}
	}
	return Pair{}, false
}

// SubsearchMap returns the subsearches keyed by id.
func (r *Result) SubsearchMap() map[string]Pair {
	m := make(map[string]Pair, len(r.Subsearches))
	for _, s := range r.Subsearches {
		m[s.ID] = s.Pair
	}
	return m
}

// MarshalJSON writes the envelope the dispatcher consumes:
//
//	{"search": [original, resolved], "subsearches": {"subsearch_<hex>": [original, resolved]}}
//
// Subsearch keys keep registration order.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"search":`)
	if err := writePair(&buf, r.Search); err != nil {
		return nil, err
	}
	buf.WriteString(`,"subsearches":{`)
	for i, s := range r.Subsearches {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalText(s.ID)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := writePair(&buf, s.Pair); err != nil {
			return nil, err
		}
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

func writePair(buf *bytes.Buffer, p Pair) error {
	data, err := marshalText([2]string{p.Original, p.Resolved})
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

// marshalText encodes v without HTML escaping; queries are full of < and >.
func marshalText(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func sortedKeys(m map[string][2]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// envelope is the CBOR form of a Result.
type envelope struct {
	Search      [2]string            `cbor:"search"`
	Subsearches map[string][2]string `cbor:"subsearches"`
}

var cborEnc = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// MarshalCBOR encodes the envelope with core deterministic encoding, so equal
// results encode to equal bytes.
func (r *Result) MarshalCBOR() ([]byte, error) {
	env := envelope{
		Search:      [2]string{r.Search.Original, r.Search.Resolved},
		Subsearches: make(map[string][2]string, len(r.Subsearches)),
	}
	for _, s := range r.Subsearches {
		env.Subsearches[s.ID] = [2]string{s.Original, s.Resolved}
	}
	return cborEnc.Marshal(env)
}

// UnmarshalCBOR decodes an envelope written by MarshalCBOR. Subsearch order
// is not preserved by the encoding and comes back sorted by id.
func (r *Result) UnmarshalCBOR(data []byte) error {
	var env envelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return err
	}
	r.Search = Pair{Original: env.Search[0], Resolved: env.Search[1]}
	r.Subsearches = r.Subsearches[:0]
	for _, id := range sortedKeys(env.Subsearches) {
		p := env.Subsearches[id]
		r.Subsearches = append(r.Subsearches, Subsearch{ID: id, Pair: Pair{Original: p[0], Resolved: p[1]}})
	}
	return nil
}
