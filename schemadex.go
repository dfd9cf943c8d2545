// Package schemadex ingests schema dumps (class layouts, field offsets, module
// offset tables) produced by an external dumper, merges them into a single
// in-memory catalog and serves substring searches over it.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, bloom/, yaml/).
package schemadex
