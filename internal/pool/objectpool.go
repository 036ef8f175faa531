package pool

import "sync"

// ObjectPool is a typed sync.Pool. Objects are created by the constructor whenever the
// pool is empty, so Acquire never returns the zero value.
type ObjectPool[T any] struct {
	pool sync.Pool
}

func NewObjectPool[T any](constructor func() T) *ObjectPool[T] {
	return &ObjectPool[T]{
		pool: sync.Pool{
			New: func() any {
				return constructor()
			},
		},
	}
}

func (o *ObjectPool[T]) Acquire() T {
	return o.pool.Get().(T)
}

// Release puts the object back. The caller must not use it afterwards.
func (o *ObjectPool[T]) Release(obj T) {
	o.pool.Put(obj)
}
