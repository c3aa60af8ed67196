// Package termboard implements the core of a terminal emulator: an
// ECMA-48 / ISO 2022 / VT-compatible escape sequence decoder, a per-line
// cell buffer supporting both monospaced and proportional (bidi) storage,
// and a terminal executor that drives a screen model ("board") plus a
// bounded scrollback.
//
// The package has no dependency on a PTY, a window system, or a font
// rasterizer: it consumes a byte stream (typically read from a PTY master)
// and produces a board a renderer can sample through [RenderTrace]. It
// also turns key and mouse events into the byte sequences a program
// expects to read back from the PTY.
//
// # Quick start
//
//	term := termboard.New(termboard.WithSize(24, 80))
//	term.Write([]byte("\x1b[31mHello \x1b[32mWorld\x1b[0m!\r\n"))
//	fmt.Println(term.Board().LineText(0))
//
// # Architecture
//
//   - [Decoder] (C4): bytes -> typed control events (DEFAULT/ESC/CSI/...)
//   - [Line] (C3): per-line cell storage, mono and proportional, with
//     bidi coordinate conversion and edit primitives
//   - [Terminal] (C5) and [Board]/[Board.Scrollback] (C6): dispatch of decoded
//     events onto cursor/margins/modes and the screen grid
//   - [AttributeTable] (C1): interning of non-trivial cell attributes
//   - [CharsetRegistry] (C2): ISO-2022 designator resolution
//   - [RenderTrace] (C8): stable per-line id/version so a renderer can
//     do incremental redraw
//   - [Terminal.EncodeKey] / [Terminal.EncodeMouse] (C7): input events ->
//     outbound bytes
package termboard
