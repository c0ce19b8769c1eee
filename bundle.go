package archway

// Bundle1, Bundle2, and Bundle3 are the generic ComponentBundle sugar this
// module supplies at the call site, following the same Query1..Query3
// arity ladder as the query engine. Spawning with more than three
// components is still possible by implementing ComponentBundle directly.

// Bundle1 wraps a single component value.
type Bundle1[T1 any] struct {
	C1 T1
}

// NewBundle1 constructs a Bundle1 from its component value.
func NewBundle1[T1 any](c1 T1) Bundle1[T1] {
	return Bundle1[T1]{C1: c1}
}

// Enumerate implements ComponentBundle.
func (b Bundle1[T1]) Enumerate() []BundleEntry {
	return []BundleEntry{
		{ID: GetID[T1](), Appender: valueAppender[T1]{value: b.C1}},
	}
}

// Bundle2 wraps two component values.
type Bundle2[T1, T2 any] struct {
	C1 T1
	C2 T2
}

// NewBundle2 constructs a Bundle2 from its component values.
func NewBundle2[T1, T2 any](c1 T1, c2 T2) Bundle2[T1, T2] {
	return Bundle2[T1, T2]{C1: c1, C2: c2}
}

// Enumerate implements ComponentBundle.
func (b Bundle2[T1, T2]) Enumerate() []BundleEntry {
	return []BundleEntry{
		{ID: GetID[T1](), Appender: valueAppender[T1]{value: b.C1}},
		{ID: GetID[T2](), Appender: valueAppender[T2]{value: b.C2}},
	}
}

// Bundle3 wraps three component values.
type Bundle3[T1, T2, T3 any] struct {
	C1 T1
	C2 T2
	C3 T3
}

// NewBundle3 constructs a Bundle3 from its component values.
func NewBundle3[T1, T2, T3 any](c1 T1, c2 T2, c3 T3) Bundle3[T1, T2, T3] {
	return Bundle3[T1, T2, T3]{C1: c1, C2: c2, C3: c3}
}

// Enumerate implements ComponentBundle.
func (b Bundle3[T1, T2, T3]) Enumerate() []BundleEntry {
	return []BundleEntry{
		{ID: GetID[T1](), Appender: valueAppender[T1]{value: b.C1}},
		{ID: GetID[T2](), Appender: valueAppender[T2]{value: b.C2}},
		{ID: GetID[T3](), Appender: valueAppender[T3]{value: b.C3}},
	}
}
