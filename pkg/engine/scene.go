package engine

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"

	"retroport/pkg/video"
)

// Display list commands carry an opcode in the top byte and an argument below it
const (
	opShift = 56
	argMask = 1<<opShift - 1

	// opClear clears the target to a packed RGBA color
	opClear uint64 = 0
	// opTexture stretches a sprite over the target; the argument is the sprite slot
	opTexture uint64 = 1
)

const (
	checkerSize = 64
	checkerCell = 8
)

// sprite is an image the scene draws through the renderer's texture cache
type sprite struct {
	id  video.TextureID
	img *image.RGBA
}

func newSprite(img *image.RGBA) sprite {
	return sprite{id: video.TextureIDOf(img.Pix), img: img}
}

// checkerImage is a size x size checkerboard of translucent white and clear cells
func checkerImage(size, cell int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 96})
			}
		}
	}
	return img
}

func textureCommand(slot int) uint64 {
	return opTexture<<opShift | uint64(slot)&argMask
}

func decodeCommand(c uint64) (op, arg uint64) {
	return c >> opShift, c & argMask
}

// sceneCommands is the demo scene: a color cycle under the checker overlay
func (e *Engine) sceneCommands() video.DisplayList {
	cmds := video.DisplayList{sceneColor(e.clock)}
	for i := range e.sprites {
		cmds = append(cmds, textureCommand(i))
	}
	return cmds
}

// processCommands is the renderer's command processor for scene display lists
func (e *Engine) processCommands(r *OpenGLRenderer, cmds video.DisplayList) {
	for _, c := range cmds {
		op, arg := decodeCommand(c)
		switch op {
		case opClear:
			gl.ClearColor(unpackRGBA(arg))
			gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		case opTexture:
			if arg >= uint64(len(e.sprites)) {
				e.log.Debugf("no sprite in slot %d", arg)
				continue
			}
			sp := e.sprites[arg]
			r.DrawTexture(sp.id, sp.img)
		default:
			e.log.Debugf("unknown display list opcode %d", op)
		}
	}
}

// sceneColor is a slow color cycle used as the demo scene
func sceneColor(t float64) uint64 {
	channel := func(phase float64) uint8 {
		return uint8(127 + 127*math.Sin(t*0.5+phase))
	}
	return packRGBA(channel(0), channel(2*math.Pi/3), channel(4*math.Pi/3), 255)
}

// packRGBA builds a clear command
func packRGBA(r, g, b, a uint8) uint64 {
	return opClear<<opShift | uint64(r)<<24 | uint64(g)<<16 | uint64(b)<<8 | uint64(a)
}

func unpackRGBA(c uint64) (r, g, b, a float32) {
	return float32(c>>24&0xff) / 255, float32(c>>16&0xff) / 255, float32(c>>8&0xff) / 255, float32(c&0xff) / 255
}
