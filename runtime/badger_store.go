package runtime

import (
	"bytes"
	"encoding/gob"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/BoonLang/boon-sub002/types"
	"github.com/BoonLang/boon-sub002/value"
)

// wireValue is the gob-serializable mirror of value.Value used to persist
// HOLD state across restarts (spec §4.3 Register/HOLD persistence). It is
// built and consumed entirely through value's exported accessors/
// constructors, never its unexported fields.
type wireValue struct {
	Kind    value.Kind
	Bool    bool
	Number  float64
	Text    string
	Tag     value.TagId
	Fields  map[value.FieldId]wireValue
	TagObj  value.TagId
	Items   []wireValue
	Handle  value.Handle
}

func encodeValue(v value.Value) wireValue {
	w := wireValue{Kind: v.Kind()}
	switch v.Kind() {
	case value.KindBool:
		w.Bool, _ = v.AsBool()
	case value.KindNumber:
		w.Number, _ = v.AsNumber()
	case value.KindText:
		w.Text, _ = v.AsText()
	case value.KindTag:
		w.Tag, _ = v.AsTag()
	case value.KindObject:
		obj, _ := v.AsObject()
		w.Fields = encodeObject(obj)
	case value.KindTaggedObject:
		t, _ := v.AsTaggedObject()
		w.TagObj = t.Tag
		w.Fields = encodeObject(t.Fields)
	case value.KindList:
		list, _ := v.AsList()
		for _, item := range list.Items() {
			w.Items = append(w.Items, encodeValue(item))
		}
	case value.KindCellRef, value.KindLinkRef, value.KindTimerRef, value.KindCollectionHandle:
		w.Handle, _ = v.AsHandle()
	}
	return w
}

func encodeObject(o value.Object) map[value.FieldId]wireValue {
	out := make(map[value.FieldId]wireValue, o.Len())
	for _, id := range o.Fields() {
		v, _ := o.Get(id)
		out[id] = encodeValue(v)
	}
	return out
}

func decodeValue(w wireValue) value.Value {
	switch w.Kind {
	case value.KindUnit:
		return value.Unit()
	case value.KindBool:
		return value.Bool(w.Bool)
	case value.KindNumber:
		return value.Number(w.Number)
	case value.KindText:
		return value.Text(w.Text)
	case value.KindTag:
		return value.Tag(w.Tag)
	case value.KindObject:
		return value.FromObject(decodeObject(w.Fields))
	case value.KindTaggedObject:
		return value.FromTaggedObject(value.TaggedObject{Tag: w.TagObj, Fields: decodeObject(w.Fields)})
	case value.KindList:
		items := make([]value.Value, len(w.Items))
		for i, item := range w.Items {
			items[i] = decodeValue(item)
		}
		return value.FromList(value.NewList(items))
	case value.KindCellRef, value.KindLinkRef, value.KindTimerRef, value.KindCollectionHandle:
		return value.FromHandle(w.Handle)
	default:
		return value.Unit()
	}
}

func decodeObject(fields map[value.FieldId]wireValue) value.Object {
	out := make(map[value.FieldId]value.Value, len(fields))
	for id, w := range fields {
		out[id] = decodeValue(w)
	}
	return value.NewObject(out)
}

// BadgerStore persists HOLD state in an embedded Badger key-value store,
// an on-disk PersistenceStore a host can supply as Config.Store (spec §4.3, §6 "hosts
// wanting HOLD state to survive a restart supply a PersistenceStore").
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (creating if absent) a Badger database at dir.
func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store at %s: %w", dir, err)
	}
	return &BadgerStore{db: db}, nil
}

func (b *BadgerStore) Load(key string) (value.Value, bool, error) {
	var w wireValue
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(raw []byte) error {
			return gob.NewDecoder(bytes.NewReader(raw)).Decode(&w)
		})
	})
	if err == badger.ErrKeyNotFound {
		return value.Unit(), false, nil
	}
	if err != nil {
		return value.Unit(), false, err
	}
	return decodeValue(w), true, nil
}

func (b *BadgerStore) Save(key string, v value.Value) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(encodeValue(v)); err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), buf.Bytes())
	})
}

func (b *BadgerStore) Close() error { return b.db.Close() }

var _ types.PersistenceStore = (*BadgerStore)(nil)
