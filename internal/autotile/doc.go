// Package autotile picks blob-47 atlas variants for tiles.
//
// A Sampler turns a tile and its eight neighbors into a Mask; Resolve maps
// the Mask to an atlas index through a table built once at init. Diagonal
// neighbors only refine the shape when both flanking cardinals connect.
//
//	s := autotile.BackgroundBlend{Rules: autotile.DefaultBlendRules()}
//	idx := autotile.ResolveIndex(world, tile, s)
package autotile
