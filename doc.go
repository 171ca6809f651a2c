// Copyright ©2024 The GUDA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gups implements the HPCC RandomAccess (GUPS) benchmark on CPU.
//
// GUPS measures how many random read-modify-write updates to a large table
// of 64-bit words a machine sustains per second. Update addresses come from
// a linear recurrence over GF(2) split into independent lanes; each lane is
// positioned directly with SeedAt, so any lane can be seeded without
// replaying the ones before it.
//
// The lanes update the shared table from several goroutines with no
// locking. Updates that collide on a cell in the same instant can be lost.
// That is part of the measurement: Verify replays the sequence serially and
// accepts the table while fewer than 1% of its cells are wrong.
//
// Example usage:
//
//	cfg := gups.DefaultRunConfig()
//	cfg.Log2Length = 24
//	cfg.Verify = true
//
//	res, err := gups.Run(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Print(res)
//	fmt.Print(res.Verification)
//
// The pieces can also be driven on their own:
//
//	table, _ := gups.NewTable(20)
//	defer table.Release()
//	engine, _ := gups.NewEngine(table, 4*table.Len())
//	engine.Run(1)
//	v := gups.Verify(table, 4*table.Len())
package gups
