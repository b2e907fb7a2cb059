// Package main provides the entry point of the Atelier admin console. The
// console logs an administrator in to the marketplace admin API, keeps the
// session and its tokens fresh, and decides which console surfaces the
// administrator may see through a single authorization gate.
package main
