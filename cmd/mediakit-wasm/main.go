// SPDX-License-Identifier: EPL-2.0

//go:build js && wasm

// Command mediakit-wasm exposes mediakit to a web page as global functions:
//
//	loadImage(url)                   -> Promise<{format, width, height, imageData}>
//	download(filename, text)         -> undefined
//	setup()                          -> null | Error
//	loadAudio(url)                   -> Promise<handle>
//	playAudio(handle, rate, gain)    -> null | Error
//	playBallAudio(handle, rate, gain)-> null | Error
//	ballAudio(gain, rate)            -> null | Error
//	releaseAudio(handle)             -> boolean
//
// Relative URLs resolve against the page location.
package main

import (
	"context"
	"syscall/js"

	"github.com/ik5/mediakit"
	"github.com/ik5/mediakit/config"
	"github.com/ik5/mediakit/imageload"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Defaults()
	cfg.Fetch.BaseURL = js.Global().Get("location").Get("href").String()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})
	if lvl, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(lvl)
	}

	kit, err := mediakit.New(cfg, mediakit.WithLogger(log))
	if err != nil {
		log.WithError(err).Fatal("mediakit init failed")
	}

	b := &bridge{kit: kit, bufs: newHandles()}
	b.register(js.Global())

	js.Global().Set("mediakitReady", true)

	select {}
}

type bridge struct {
	kit  *mediakit.Kit
	bufs *handles
}

func (b *bridge) register(global js.Value) {
	global.Set("loadImage", js.FuncOf(b.loadImage))
	global.Set("download", js.FuncOf(b.download))
	global.Set("setup", js.FuncOf(b.setup))
	global.Set("loadAudio", js.FuncOf(b.loadAudio))
	global.Set("playAudio", js.FuncOf(b.playAudio))
	global.Set("playBallAudio", js.FuncOf(b.playBallAudio))
	global.Set("ballAudio", js.FuncOf(b.ballAudio))
	global.Set("releaseAudio", js.FuncOf(b.releaseAudio))
}

func (b *bridge) loadImage(_ js.Value, args []js.Value) any {
	locator := argString(args, 0)

	return promise(func() (any, error) {
		img, err := b.kit.LoadImage(context.Background(), locator)
		if err != nil {
			return nil, err
		}

		rgba := imageload.ToRGBA(img)
		w, h := rgba.Bounds().Dx(), rgba.Bounds().Dy()

		pixels := js.Global().Get("Uint8ClampedArray").New(len(rgba.Pix))
		js.CopyBytesToJS(pixels, rgba.Pix)

		return map[string]any{
			"format":    img.Format,
			"width":     w,
			"height":    h,
			"imageData": js.Global().Get("ImageData").New(pixels, w, h),
		}, nil
	})
}

func (b *bridge) download(_ js.Value, args []js.Value) any {
	b.kit.Download(argString(args, 0), argString(args, 1))
	return js.Undefined()
}

func (b *bridge) setup(_ js.Value, _ []js.Value) any {
	return result(b.kit.Setup())
}

func (b *bridge) loadAudio(_ js.Value, args []js.Value) any {
	locator := argString(args, 0)

	return promise(func() (any, error) {
		buf, err := b.kit.LoadAudio(context.Background(), locator)
		if err != nil {
			return nil, err
		}
		return b.bufs.add(buf), nil
	})
}

func (b *bridge) playAudio(_ js.Value, args []js.Value) any {
	buf, err := b.bufs.get(argInt(args, 0))
	if err != nil {
		return jsError(err)
	}
	return result(b.kit.PlayAudio(buf, argFloat(args, 1, 1), argFloat(args, 2, 1)))
}

func (b *bridge) playBallAudio(_ js.Value, args []js.Value) any {
	buf, err := b.bufs.get(argInt(args, 0))
	if err != nil {
		return jsError(err)
	}
	_, err = b.kit.PlayLoop(buf, argFloat(args, 1, 1), argFloat(args, 2, 1))
	return result(err)
}

func (b *bridge) ballAudio(_ js.Value, args []js.Value) any {
	return result(b.kit.SetLoop(argFloat(args, 0, 1), argFloat(args, 1, 1)))
}

func (b *bridge) releaseAudio(_ js.Value, args []js.Value) any {
	return b.bufs.release(argInt(args, 0))
}
