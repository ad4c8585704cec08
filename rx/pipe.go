package rx

// Pipe applies ops to src from left to right.
func Pipe[T any](src Observable[T], ops ...OperatorFunc[T, T]) Observable[T] {
	for _, op := range ops {
		src = op(src)
	}
	return src
}

func Pipe1[A, B any](src Observable[A], op1 OperatorFunc[A, B]) Observable[B] {
	return op1(src)
}

func Pipe2[A, B, C any](src Observable[A], op1 OperatorFunc[A, B], op2 OperatorFunc[B, C]) Observable[C] {
	return op2(op1(src))
}

func Pipe3[A, B, C, D any](src Observable[A], op1 OperatorFunc[A, B], op2 OperatorFunc[B, C], op3 OperatorFunc[C, D]) Observable[D] {
	return op3(op2(op1(src)))
}

func Pipe4[A, B, C, D, E any](src Observable[A], op1 OperatorFunc[A, B], op2 OperatorFunc[B, C], op3 OperatorFunc[C, D], op4 OperatorFunc[D, E]) Observable[E] {
	return op4(op3(op2(op1(src))))
}

func Pipe5[A, B, C, D, E, F any](src Observable[A], op1 OperatorFunc[A, B], op2 OperatorFunc[B, C], op3 OperatorFunc[C, D], op4 OperatorFunc[D, E], op5 OperatorFunc[E, F]) Observable[F] {
	return op5(op4(op3(op2(op1(src)))))
}

// Compose chains ops into one operator, so pipelines can be packaged and
// reused like any stock operator.
func Compose[T any](ops ...OperatorFunc[T, T]) OperatorFunc[T, T] {
	return func(src Observable[T]) Observable[T] {
		return Pipe(src, ops...)
	}
}

func Compose2[A, B, C any](op1 OperatorFunc[A, B], op2 OperatorFunc[B, C]) OperatorFunc[A, C] {
	return func(src Observable[A]) Observable[C] {
		return op2(op1(src))
	}
}
