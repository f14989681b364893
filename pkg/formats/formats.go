// Package formats provides parsers for Wolfenstein 3D data files.
package formats

// Note: GAMEMAPS/MAPHEAD (level archive) is implemented in gamemaps.go
// Note: Carmack and RLEW plane expansion is implemented in expand.go
// Note: VSWAP (wall/sprite/sound page archive) is implemented in vswap.go
// Note: raw VGA palettes are implemented in palette.go
