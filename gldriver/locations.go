package gldriver

// locationTable hands out integer handles for opaque uniform location objects.
// Handles are scoped to the program they were resolved in: deleting a program
// frees its handles for reuse. The zero value is ready to use.
type locationTable[T any] struct {
	slots     []locationSlot[T]
	free      []int32
	byProgram map[uint32]map[string]int32
}

type locationSlot[T any] struct {
	program uint32
	v       T
}

// lookup returns the handle of name in program, calling resolve only on the
// first lookup. It returns -1 without caching when resolve reports the uniform absent.
func (t *locationTable[T]) lookup(program uint32, name string, resolve func() (T, bool)) int32 {
	if h, ok := t.byProgram[program][name]; ok {
		return h
	}
	v, ok := resolve()
	if !ok {
		return -1
	}
	var h int32
	if n := len(t.free); n > 0 {
		h = t.free[n-1]
		t.free = t.free[:n-1]
		t.slots[h] = locationSlot[T]{program: program, v: v}
	} else {
		h = int32(len(t.slots))
		t.slots = append(t.slots, locationSlot[T]{program: program, v: v})
	}
	if t.byProgram == nil {
		t.byProgram = make(map[uint32]map[string]int32)
	}
	names := t.byProgram[program]
	if names == nil {
		names = make(map[string]int32)
		t.byProgram[program] = names
	}
	names[name] = h
	return h
}

// get returns the location object of a live handle.
func (t *locationTable[T]) get(h int32) T { return t.slots[h].v }

// drop frees every handle resolved in program.
func (t *locationTable[T]) drop(program uint32) {
	for _, h := range t.byProgram[program] {
		t.slots[h] = locationSlot[T]{}
		t.free = append(t.free, h)
	}
	delete(t.byProgram, program)
}

// len returns the number of live handles.
func (t *locationTable[T]) len() int { return len(t.slots) - len(t.free) }
