package genref_test

import (
	"errors"
	"testing"

	"github.com/hupe1980/genref"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreshReference(t *testing.T) {
	a := genref.NewArena()
	o := genref.New(a, "hello")
	defer o.Release()

	ref := o.Ref()
	assert.True(t, ref.Valid())

	g, err := ref.TryBorrow()
	require.NoError(t, err)
	assert.Equal(t, "hello", g.Get())
	g.Release()

	mg, err := ref.TryBorrowMut()
	require.NoError(t, err)
	assert.Equal(t, "hello", mg.Get())
	mg.Release()
}

func TestMutateThenRead(t *testing.T) {
	a := genref.NewArena()
	o := genref.New(a, 5)
	defer o.Release()

	ref := o.Ref()

	mg := ref.BorrowMut()
	mg.Set(6)
	mg.Release()

	g := ref.Borrow()
	defer g.Release()
	assert.Equal(t, 6, g.Get())
}

func TestStaleAfterRelease(t *testing.T) {
	a := genref.NewArena()
	o := genref.New(a, 1)
	ref := o.Ref()
	copied := ref

	o.Release()
	assert.True(t, o.Released())

	for i := 0; i < 3; i++ {
		_, err := ref.TryBorrow()
		assert.ErrorIs(t, err, genref.ErrStale)

		_, err = copied.TryBorrowMut()
		assert.ErrorIs(t, err, genref.ErrStale)
	}

	assert.False(t, ref.Valid())
	assert.ErrorIs(t, ref.With(func(*int) {}), genref.ErrStale)
	assert.ErrorIs(t, ref.WithMut(func(*int) {}), genref.ErrStale)
	assert.Equal(t, ref, o.Ref())
}

func TestReuseKeepsOldReferencesStale(t *testing.T) {
	a := genref.NewArena()

	o1 := genref.New(a, 10)
	w1 := o1.Ref()
	o1.Release()

	o2 := genref.New(a, 20)
	defer o2.Release()
	w2 := o2.Ref()

	assert.Equal(t, uint64(1), a.Stats().Reuses)
	assert.NotEqual(t, w1, w2)
	assert.Equal(t, w1.Generation()+1, w2.Generation())

	_, err := w1.TryBorrow()
	assert.ErrorIs(t, err, genref.ErrStale)

	g, err := w2.TryBorrow()
	require.NoError(t, err)
	defer g.Release()
	assert.Equal(t, 20, g.Get())
}

func TestCrossTypeReuse(t *testing.T) {
	a := genref.NewArena()
	require.Equal(t, genref.LayoutOf[int64](), genref.LayoutOf[uint64]())

	o1 := genref.New(a, int64(-1))
	w1 := o1.Ref()

	// Leave a shared borrow in the slot's history; reuse must start idle.
	w1.Borrow().Release()
	o1.Release()

	o2 := genref.New(a, uint64(42))
	defer o2.Release()
	w2 := o2.Ref()

	st := a.Stats()
	assert.Equal(t, 1, st.Pools)
	assert.Equal(t, uint64(1), st.Slots)
	assert.Equal(t, uint64(1), st.Reuses)

	_, err := w1.TryBorrow()
	assert.ErrorIs(t, err, genref.ErrStale)

	assert.Equal(t, genref.StateIdle, w2.State())
	mg, err := w2.TryBorrowMut()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), mg.Get())
	mg.Release()
}

func TestDistinctLayoutsUseDistinctPools(t *testing.T) {
	a := genref.NewArena()

	o1 := genref.New(a, int32(1))
	o2 := genref.New(a, int64(2))
	o1.Release()
	o2.Release()

	o3 := genref.New(a, int64(3))
	defer o3.Release()

	st := a.Stats()
	assert.Equal(t, 2, st.Pools)
	assert.Equal(t, uint64(1), st.Reuses)
	assert.Equal(t, uint64(1), st.Free)

	pools := a.PoolStats()
	require.Len(t, pools, 2)
	assert.Equal(t, genref.LayoutOf[int32](), pools[0].Layout)
	assert.Equal(t, genref.LayoutOf[int64](), pools[1].Layout)
}

func TestExclusiveBlocksEverything(t *testing.T) {
	a := genref.NewArena()
	o := genref.New(a, []int{1, 2})
	defer o.Release()
	w := o.Ref()

	g := w.BorrowMut()
	assert.Equal(t, genref.StateExclusive, w.State())

	_, err := w.TryBorrow()
	assert.ErrorIs(t, err, genref.ErrAliasing)
	_, err = w.TryBorrowMut()
	assert.ErrorIs(t, err, genref.ErrAliasing)

	g.Release()

	g2, err := w.TryBorrow()
	require.NoError(t, err)
	g2.Release()
}

func TestSharedBorrowsCoexist(t *testing.T) {
	a := genref.NewArena()
	o := genref.New(a, 3.5)
	defer o.Release()
	w := o.Ref()

	g1, err := w.TryBorrow()
	require.NoError(t, err)
	g2, err := w.TryBorrow()
	require.NoError(t, err)
	assert.Equal(t, genref.StateShared, w.State())

	_, err = w.TryBorrowMut()
	assert.ErrorIs(t, err, genref.ErrAliasing)

	// Release in acquisition order; the other guard still blocks writers.
	g1.Release()
	_, err = w.TryBorrowMut()
	assert.ErrorIs(t, err, genref.ErrAliasing)

	g2.Release()
	assert.Equal(t, genref.StateIdle, w.State())

	mg, err := w.TryBorrowMut()
	require.NoError(t, err)
	mg.Release()
}

func TestSharedBorrowsReleaseInAnyOrder(t *testing.T) {
	a := genref.NewArena()
	o := genref.New(a, 0)
	defer o.Release()
	w := o.Ref()

	guards := make([]*genref.Guard[int], 5)
	for i := range guards {
		guards[i] = w.Borrow()
	}

	for _, i := range []int{3, 0, 4, 1} {
		guards[i].Release()
		_, err := w.TryBorrowMut()
		assert.ErrorIs(t, err, genref.ErrAliasing)
	}

	guards[2].Release()
	mg, err := w.TryBorrowMut()
	require.NoError(t, err)
	mg.Release()
}

func TestReentrantSharedBorrowIsPermitted(t *testing.T) {
	a := genref.NewArena()
	o := genref.New(a, 7)
	defer o.Release()
	w := o.Ref()

	err := w.With(func(outer *int) {
		inner := w.Borrow()
		defer inner.Release()
		assert.Equal(t, *outer, inner.Get())
	})
	require.NoError(t, err)
	assert.Equal(t, genref.StateIdle, w.State())
}

func TestStrictBorrowPanics(t *testing.T) {
	a := genref.NewArena()
	o := genref.New(a, 1)
	w := o.Ref()

	mg := w.BorrowMut()
	err := recoverError(t, func() { w.Borrow() })
	assert.ErrorIs(t, err, genref.ErrAliasing)

	var berr *genref.BorrowError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, genref.BorrowShared, berr.Mode)
	assert.Equal(t, w.String(), berr.Ref)
	mg.Release()

	g := w.Borrow()
	err = recoverError(t, func() { w.BorrowMut() })
	assert.ErrorIs(t, err, genref.ErrAliasing)
	g.Release()

	o.Release()
	err = recoverError(t, func() { w.Borrow() })
	assert.ErrorIs(t, err, genref.ErrStale)
	err = recoverError(t, func() { w.BorrowMut() })
	assert.ErrorIs(t, err, genref.ErrStale)
	assert.Contains(t, err.Error(), "exclusive borrow of ref(pool=0,index=0,gen=0)")
}

func TestReleaseWhileBorrowedIsFatal(t *testing.T) {
	tests := []struct {
		name   string
		borrow func(genref.Ref[int]) genref.Releaser
		state  genref.BorrowState
	}{
		{"shared", func(r genref.Ref[int]) genref.Releaser { return r.Borrow() }, genref.StateShared},
		{"exclusive", func(r genref.Ref[int]) genref.Releaser { return r.BorrowMut() }, genref.StateExclusive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := genref.NewArena()
			o := genref.New(a, 1)
			w := o.Ref()

			g := tt.borrow(w)
			err := recoverError(t, o.Release)

			var inUse *genref.OwnerInUseError
			require.ErrorAs(t, err, &inUse)
			assert.Equal(t, tt.state, inUse.State)
			assert.False(t, o.Released())
			assert.True(t, w.Valid())

			// Once the escaped borrow ends, the owner can go.
			g.Release()
			o.Release()
			assert.False(t, w.Valid())
		})
	}
}

func TestGuardUseAfterRelease(t *testing.T) {
	a := genref.NewArena()
	o := genref.New(a, 1)
	defer o.Release()
	w := o.Ref()

	g := w.Borrow()
	g.Release()
	g.Release()
	assert.PanicsWithValue(t, genref.ErrGuardReleased, func() { g.Get() })
	assert.PanicsWithValue(t, genref.ErrGuardReleased, func() { g.Ptr() })

	mg := w.BorrowMut()
	mg.Release()
	mg.Release()
	assert.PanicsWithValue(t, genref.ErrGuardReleased, func() { mg.Set(2) })

	assert.Equal(t, genref.StateIdle, w.State())
}

func TestWithReleasesOnPanic(t *testing.T) {
	a := genref.NewArena()
	o := genref.New(a, 1)
	defer o.Release()
	w := o.Ref()

	assert.Panics(t, func() {
		_ = w.WithMut(func(v *int) {
			*v = 2
			panic("boom")
		})
	})
	assert.Equal(t, genref.StateIdle, w.State())

	assert.Panics(t, func() {
		_ = w.With(func(*int) { panic("boom") })
	})
	assert.Equal(t, genref.StateIdle, w.State())

	g := w.Borrow()
	defer g.Release()
	assert.Equal(t, 2, g.Get())
}

func TestWithMutRejectsNestedBorrow(t *testing.T) {
	a := genref.NewArena()
	o := genref.New(a, 1)
	defer o.Release()
	w := o.Ref()

	var inner error
	err := w.WithMut(func(*int) {
		inner = w.With(func(*int) {})
	})
	require.NoError(t, err)
	assert.ErrorIs(t, inner, genref.ErrAliasing)
}

func TestZeroRef(t *testing.T) {
	var w genref.Ref[int]

	assert.True(t, w.IsZero())
	assert.False(t, w.Valid())
	assert.Nil(t, w.Arena())
	assert.Equal(t, genref.StateIdle, w.State())

	_, err := w.TryBorrow()
	assert.ErrorIs(t, err, genref.ErrStale)
	_, err = w.TryBorrowMut()
	assert.ErrorIs(t, err, genref.ErrStale)
}

func TestReferencesDoNotCrossArenas(t *testing.T) {
	a1 := genref.NewArena()
	a2 := genref.NewArena()

	o1 := genref.New(a1, 1)
	defer o1.Release()
	o2 := genref.New(a2, 2)
	defer o2.Release()

	assert.Same(t, a1, o1.Ref().Arena())
	assert.Same(t, a2, o2.Ref().Arena())

	g := o2.Ref().Borrow()
	defer g.Release()
	assert.Equal(t, 2, g.Get())
}

func TestOwnerDoubleRelease(t *testing.T) {
	a := genref.NewArena()
	o := genref.New(a, 1)

	o.Release()
	o.Release()

	st := a.Stats()
	assert.Equal(t, uint64(1), st.Releases)
	assert.Equal(t, uint64(1), st.Free)
}

func TestBorrowErrorUnwrap(t *testing.T) {
	a := genref.NewArena()
	o := genref.New(a, 1)
	w := o.Ref()
	o.Release()

	_, err := w.TryBorrow()
	require.Error(t, err)

	assert.True(t, errors.Is(err, genref.ErrStale))
	assert.False(t, errors.Is(err, genref.ErrAliasing))
	assert.Contains(t, err.Error(), "shared borrow")
}
