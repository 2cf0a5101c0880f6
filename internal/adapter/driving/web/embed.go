package web

import "embed"

// StaticFS holds the stylesheet and the small script the pages load.
//
//go:embed static/*
var StaticFS embed.FS
