// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package primes generates the unbounded sequence of prime numbers with an incremental
// sieve of Eratosthenes.
//
// The sieve is not run forward indefinitely: it only keeps, for each prime found so far,
// its next multiple not yet reached. Memory is proportional to the number of primes produced.
package primes

import "iter"

// Primes returns the sequence of prime numbers, starting at 2.
//
// Each call returns an independent sequence, and each iteration over the returned
// sequence restarts from 2. It never ends on its own: the consumer must stop the loop.
func Primes() iter.Seq[int] {
	return func(yield func(int) bool) {
		// witnesses maps the next composites to the primes that divide them.
		witnesses := make(map[int][]int)
		for q := 2; ; q++ {
			factors, composite := witnesses[q]
			if !composite {
				// q is a new prime: its first multiple not yet marked is q*q.
				if !yield(q) {
					return
				}
				witnesses[q*q] = []int{q}
				continue
			}
			// Move each witness to its next multiple, q is no longer needed.
			for _, p := range factors {
				witnesses[p+q] = append(witnesses[p+q], p)
			}
			delete(witnesses, q)
		}
	}
}

// First returns the first n prime numbers.
func First(n int) []int {
	if n <= 0 {
		return nil
	}
	result := make([]int, 0, n)
	for p := range Primes() {
		result = append(result, p)
		if len(result) == n {
			break
		}
	}
	return result
}
