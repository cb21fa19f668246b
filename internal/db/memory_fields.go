package db

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"clubhub-backend-go/internal/models"
)

var timeType = reflect.TypeOf(time.Time{})

// cloneValue returns a pointer to a deep copy of v, which must be a struct
// or a non-nil pointer to one.
func cloneValue(v any) (any, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, fmt.Errorf("memory store: nil document")
	}
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, fmt.Errorf("memory store: nil document")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("memory store: documents must be structs, got %s", rv.Type())
	}
	dst := reflect.New(rv.Type())
	deepCopy(dst.Elem(), rv)
	return dst.Interface(), nil
}

// decodeInto resets *dst and copies doc into it. Documents decode into their
// own type; any other struct is filled field by field through the firestore
// names, as the Firestore codec would.
func decodeInto(doc, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("memory store: destination must be a non-nil pointer, got %T", dst)
	}
	out := rv.Elem()
	out.Set(reflect.Zero(out.Type()))

	src := reflect.ValueOf(doc)
	for src.Kind() == reflect.Ptr {
		if src.IsNil() {
			return nil
		}
		src = src.Elem()
	}
	if src.Type() == out.Type() {
		deepCopy(out, src)
		return nil
	}
	if src.Kind() != reflect.Struct || out.Kind() != reflect.Struct {
		return fmt.Errorf("memory store: cannot decode %s into %s", src.Type(), out.Type())
	}
	t := out.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, _ := storedName(sf)
		if name == "-" {
			continue
		}
		from, ok := fieldByName(src, name)
		if !ok {
			continue
		}
		copied := reflect.New(from.Type()).Elem()
		deepCopy(copied, from)
		cv, err := convertTo(copied, sf.Type)
		if err != nil {
			return fmt.Errorf("memory store: field %s: %w", name, err)
		}
		out.Field(i).Set(cv)
	}
	return nil
}

// deepCopy copies src into dst, which must be settable and of the same
// type. Nil slices, maps and pointers stay nil and empty ones stay empty,
// matching how Firestore distinguishes null from an empty array or map.
func deepCopy(dst, src reflect.Value) {
	switch src.Kind() {
	case reflect.Ptr:
		if src.IsNil() {
			dst.Set(reflect.Zero(dst.Type()))
			return
		}
		p := reflect.New(src.Type().Elem())
		deepCopy(p.Elem(), src.Elem())
		dst.Set(p)
	case reflect.Interface:
		if src.IsNil() {
			dst.Set(reflect.Zero(dst.Type()))
			return
		}
		inner := reflect.New(src.Elem().Type()).Elem()
		deepCopy(inner, src.Elem())
		dst.Set(inner)
	case reflect.Slice:
		if src.IsNil() {
			dst.Set(reflect.Zero(dst.Type()))
			return
		}
		s := reflect.MakeSlice(src.Type(), src.Len(), src.Len())
		for i := 0; i < src.Len(); i++ {
			deepCopy(s.Index(i), src.Index(i))
		}
		dst.Set(s)
	case reflect.Array:
		for i := 0; i < src.Len(); i++ {
			deepCopy(dst.Index(i), src.Index(i))
		}
	case reflect.Map:
		if src.IsNil() {
			dst.Set(reflect.Zero(dst.Type()))
			return
		}
		m := reflect.MakeMapWithSize(src.Type(), src.Len())
		iter := src.MapRange()
		for iter.Next() {
			v := reflect.New(src.Type().Elem()).Elem()
			deepCopy(v, iter.Value())
			m.SetMapIndex(iter.Key(), v)
		}
		dst.Set(m)
	case reflect.Struct:
		// Start from a shallow copy so unexported state (time.Time) carries
		// over, then replace every exported field with its deep copy.
		dst.Set(src)
		if src.Type() == timeType {
			return
		}
		for i := 0; i < src.NumField(); i++ {
			if src.Type().Field(i).IsExported() {
				deepCopy(dst.Field(i), src.Field(i))
			}
		}
	default:
		dst.Set(src)
	}
}

// storedName returns the field's firestore name and tag options.
func storedName(sf reflect.StructField) (string, []string) {
	parts := strings.Split(sf.Tag.Get("firestore"), ",")
	name := parts[0]
	if name == "" {
		name = sf.Name
	}
	return name, parts[1:]
}

// fieldByName finds the exported field of struct v stored as name.
func fieldByName(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if stored, _ := storedName(sf); stored == name && stored != "-" {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// lookupField resolves a dot-separated field path against a document.
func lookupField(doc any, path string) (reflect.Value, bool) {
	v := reflect.ValueOf(doc)
	for _, part := range strings.Split(path, ".") {
		for v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return reflect.Value{}, true
			}
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct {
			return reflect.Value{}, false
		}
		f, ok := fieldByName(v, part)
		if !ok {
			return reflect.Value{}, false
		}
		v = f
	}
	return v, true
}

// settableField resolves path for assignment, allocating nil intermediate
// structs on the way.
func settableField(v reflect.Value, path string) (reflect.Value, error) {
	parts := strings.Split(path, ".")
	for i, part := range parts {
		f, ok := fieldByName(v, part)
		if !ok {
			return reflect.Value{}, models.NewValidationError(path, "is not a stored field")
		}
		if i == len(parts)-1 {
			return f, nil
		}
		for f.Kind() == reflect.Ptr {
			if f.IsNil() {
				f.Set(reflect.New(f.Type().Elem()))
			}
			f = f.Elem()
		}
		if f.Kind() != reflect.Struct {
			return reflect.Value{}, models.NewValidationError(path, "does not name a nested field")
		}
		v = f
	}
	return v, nil
}

// stampServerTimestamps fills zero time fields tagged serverTimestamp.
func stampServerTimestamps(doc any, now time.Time) {
	v := reflect.ValueOf(doc).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		_, opts := storedName(sf)
		if !hasOption(opts, "serverTimestamp") {
			continue
		}
		f := v.Field(i)
		switch {
		case f.Type() == timeType && f.Interface().(time.Time).IsZero():
			f.Set(reflect.ValueOf(now))
		case f.Kind() == reflect.Ptr && f.Type().Elem() == timeType && f.IsNil():
			ts := now
			f.Set(reflect.ValueOf(&ts))
		}
	}
}

func hasOption(opts []string, want string) bool {
	for _, o := range opts {
		if o == want {
			return true
		}
	}
	return false
}

func applyUpdates(doc any, updates []Update, now time.Time) error {
	root := reflect.ValueOf(doc).Elem()
	for _, u := range updates {
		field, err := settableField(root, u.Path)
		if err != nil {
			return err
		}
		if err := assign(field, u.Value, now); err != nil {
			return fmt.Errorf("field %s: %w", u.Path, err)
		}
	}
	return nil
}

func assign(field reflect.Value, value any, now time.Time) error {
	switch t := value.(type) {
	case incrementTransform:
		switch field.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			field.SetInt(field.Int() + t.n)
		case reflect.Float32, reflect.Float64:
			field.SetFloat(field.Float() + float64(t.n))
		default:
			return fmt.Errorf("cannot increment a %s", field.Type())
		}
	case serverTimestampTransform:
		return setValue(field, reflect.ValueOf(now))
	case deleteFieldTransform:
		field.Set(reflect.Zero(field.Type()))
	case arrayUnionTransform:
		if field.Kind() != reflect.Slice {
			return fmt.Errorf("array union on a %s", field.Type())
		}
		for _, e := range t.elems {
			ev, err := convertTo(reflect.ValueOf(e), field.Type().Elem())
			if err != nil {
				return err
			}
			if indexOf(field, ev) < 0 {
				field.Set(reflect.Append(field, ev))
			}
		}
	case arrayRemoveTransform:
		if field.Kind() != reflect.Slice {
			return fmt.Errorf("array remove on a %s", field.Type())
		}
		kept := reflect.MakeSlice(field.Type(), 0, field.Len())
		for i := 0; i < field.Len(); i++ {
			item := field.Index(i)
			drop := false
			for _, e := range t.elems {
				if equalValues(normalize(item), normalize(reflect.ValueOf(e))) {
					drop = true
					break
				}
			}
			if !drop {
				kept = reflect.Append(kept, item)
			}
		}
		field.Set(kept)
	default:
		return setValue(field, reflect.ValueOf(value))
	}
	return nil
}

func setValue(field, v reflect.Value) error {
	if !v.IsValid() {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}
	cv, err := convertTo(v, field.Type())
	if err != nil {
		return err
	}
	field.Set(cv)
	return nil
}

// convertTo coerces v to typ the way the Firestore codec would on a round
// trip: pointers are (de)referenced, named scalar types are converted, and
// slices are converted element-wise.
func convertTo(v reflect.Value, typ reflect.Type) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Zero(typ), nil
	}
	if v.Type().AssignableTo(typ) {
		return v, nil
	}
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Zero(typ), nil
		}
		return convertTo(v.Elem(), typ)
	}
	if typ.Kind() == reflect.Ptr {
		inner, err := convertTo(v, typ.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(typ.Elem())
		p.Elem().Set(inner)
		return p, nil
	}
	if v.Kind() == reflect.Slice && typ.Kind() == reflect.Slice {
		out := reflect.MakeSlice(typ, v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			e, err := convertTo(v.Index(i), typ.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(e)
		}
		return out, nil
	}
	if sameScalarFamily(v.Kind(), typ.Kind()) && v.Type().ConvertibleTo(typ) {
		return v.Convert(typ), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot store %s in a %s field", v.Type(), typ)
}

func scalarFamily(k reflect.Kind) int {
	switch k {
	case reflect.String:
		return 1
	case reflect.Bool:
		return 2
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return 3
	}
	return 0
}

func sameScalarFamily(a, b reflect.Kind) bool {
	fa := scalarFamily(a)
	return fa != 0 && fa == scalarFamily(b)
}

func indexOf(slice, v reflect.Value) int {
	want := normalize(v)
	for i := 0; i < slice.Len(); i++ {
		if equalValues(normalize(slice.Index(i)), want) {
			return i
		}
	}
	return -1
}

// normalize reduces a field value to nil, bool, int64, float64, string,
// time.Time or []any so values of different Go types can be compared.
func normalize(v reflect.Value) any {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return nil
	}
	if v.Type() == timeType {
		return v.Interface().(time.Time)
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Slice, reflect.Array:
		out := make([]any, v.Len())
		for i := range out {
			out[i] = normalize(v.Index(i))
		}
		return out
	}
	return v.Interface()
}

// compareValues orders two normalized values. Nulls sort first; ok is false
// when the values are of incomparable types.
func compareValues(a, b any) (int, bool) {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0, true
		case a == nil:
			return -1, true
		default:
			return 1, true
		}
	}
	switch x := a.(type) {
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		}
		return 1, true
	case int64:
		switch y := b.(type) {
		case int64:
			return cmpOrdered(x, y), true
		case float64:
			return cmpOrdered(float64(x), y), true
		}
	case float64:
		switch y := b.(type) {
		case int64:
			return cmpOrdered(x, float64(y)), true
		case float64:
			return cmpOrdered(x, y), true
		}
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), true
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y), true
		}
	}
	return 0, false
}

func cmpOrdered[T int64 | float64](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func equalValues(a, b any) bool {
	c, ok := compareValues(a, b)
	return ok && c == 0
}

func matchesAll(doc any, filters []Filter) bool {
	for _, f := range filters {
		if !matches(doc, f) {
			return false
		}
	}
	return true
}

func matches(doc any, f Filter) bool {
	fv, ok := lookupField(doc, f.Field)
	if !ok {
		return false
	}
	have := normalize(fv)
	want := normalize(reflect.ValueOf(f.Value))

	switch f.Op {
	case "==":
		return equalValues(have, want)
	case "!=":
		return have != nil && !equalValues(have, want)
	case "array-contains":
		items, _ := have.([]any)
		for _, item := range items {
			if equalValues(item, want) {
				return true
			}
		}
		return false
	case "in":
		options, _ := want.([]any)
		for _, o := range options {
			if equalValues(have, o) {
				return true
			}
		}
		return false
	}

	if have == nil {
		return false
	}
	c, ok := compareValues(have, want)
	if !ok {
		return false
	}
	switch f.Op {
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	}
	return false
}

// rowLess orders rows by the query's orderings, then by path.
func rowLess(a, b memRow, orders []Order) bool {
	for _, o := range orders {
		av, _ := lookupField(a.doc, o.Field)
		bv, _ := lookupField(b.doc, o.Field)
		c, _ := compareValues(normalize(av), normalize(bv))
		if c != 0 {
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
	}
	return a.path < b.path
}
