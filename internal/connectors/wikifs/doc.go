// Package wikifs implements a documentation store over a plain
// directory of markdown files. It is the store of choice for repos that
// keep their wiki as a docs/ folder, and it backs most of the test
// suite because it needs no network.
package wikifs
