package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Vandanael/chroma-control-sub000/internal/app"
)

func main() {
	ebiten.SetWindowTitle("Chroma Control")
	ebiten.SetWindowSize(1640, 940)
	if err := ebiten.RunGame(app.New()); err != nil {
		log.Fatal(err)
	}
}
