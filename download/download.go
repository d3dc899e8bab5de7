// SPDX-License-Identifier: EPL-2.0

// Package download saves generated content as a file on the client side.
//
// Content is always turned into a data: URI first, exactly what a browser
// anchor with a download attribute needs, and handed to a Saver. Natively
// DirSaver writes the decoded payload into a directory; under js/wasm
// DOMSaver clicks a temporary anchor element.
package download

import (
	"encoding/base64"
	"io"
	"net/url"

	"github.com/ik5/mediakit/fetch"
	"github.com/sirupsen/logrus"
)

const textPrefix = "data:text/plain;charset=utf-8,"

// Saver persists one download. href is always a data: URI.
type Saver interface {
	Save(filename, href string) error
}

// DataURI percent-encodes text into a text/plain data URI. There is no size
// limit; very large text yields a very long URI.
func DataURI(text string) string {
	return textPrefix + url.PathEscape(text)
}

// BytesURI base64-encodes data into a data URI of the given media type.
func BytesURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI is the inverse of DataURI and BytesURI.
func DecodeDataURI(href string) ([]byte, error) {
	return fetch.DecodeDataURI(href)
}

// Downloader triggers downloads and forgets about them. A failing Saver is
// logged and otherwise unobservable, matching what a page can see of the
// browser's download manager.
type Downloader struct {
	saver Saver
	log   logrus.FieldLogger
}

func New(saver Saver, log logrus.FieldLogger) *Downloader {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Downloader{saver: saver, log: log}
}

// Download saves text under filename.
func (d *Downloader) Download(filename, text string) {
	_ = d.SaveText(filename, text)
}

// DownloadBytes saves binary data of the given media type under filename.
func (d *Downloader) DownloadBytes(filename, mime string, data []byte) {
	_ = d.SaveBytes(filename, mime, data)
}

// SaveText is Download for callers that can act on a failed save. The error
// is logged either way.
func (d *Downloader) SaveText(filename, text string) error {
	return d.save(filename, DataURI(text), len(text))
}

// SaveBytes is DownloadBytes with the Saver's error returned.
func (d *Downloader) SaveBytes(filename, mime string, data []byte) error {
	return d.save(filename, BytesURI(mime, data), len(data))
}

func (d *Downloader) save(filename, href string, size int) error {
	entry := d.log.WithFields(logrus.Fields{"filename": filename, "bytes": size})

	if err := d.saver.Save(filename, href); err != nil {
		entry.WithError(err).Warn("download failed")
		return err
	}

	entry.Debug("download triggered")
	return nil
}
