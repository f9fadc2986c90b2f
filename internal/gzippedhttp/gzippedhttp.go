// Package gzippedhttp provides gzip compression for HTTP responses and
// transparent decompression of gzip-encoded request bodies.
package gzippedhttp

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		w, _ := gzip.NewWriterLevel(nil, gzip.BestSpeed)
		return w
	},
}

// CompressedHTTPResponseWriter wraps http.ResponseWriter and compresses
// the response body using gzip. Error responses are passed through
// uncompressed so their bodies stay readable without the encoding header.
type CompressedHTTPResponseWriter struct {
	w  http.ResponseWriter
	zw *gzip.Writer

	wroteHeader bool
	passThrough bool
}

// NewCompressedHTTPResponseWriter returns a writer that gzip-compresses
// everything written to the wrapped http.ResponseWriter.
func NewCompressedHTTPResponseWriter(w http.ResponseWriter) *CompressedHTTPResponseWriter {
	zw := gzipWriterPool.Get().(*gzip.Writer)
	zw.Reset(w)
	return &CompressedHTTPResponseWriter{
		w:  w,
		zw: zw,
	}
}

// Header returns the HTTP headers associated with the response.
func (c *CompressedHTTPResponseWriter) Header() http.Header {
	return c.w.Header()
}

// WriteHeader sets the HTTP status code. Non-error responses announce the
// gzip encoding; error responses are written uncompressed.
func (c *CompressedHTTPResponseWriter) WriteHeader(statusCode int) {
	c.wroteHeader = true
	if statusCode < 300 {
		c.w.Header().Set("Content-Encoding", "gzip")
	} else {
		c.passThrough = true
	}
	c.w.WriteHeader(statusCode)
}

// Write writes response body data, compressing it unless the status code
// selected pass-through mode.
func (c *CompressedHTTPResponseWriter) Write(p []byte) (int, error) {
	if !c.wroteHeader {
		c.WriteHeader(http.StatusOK)
	}
	if c.passThrough {
		return c.w.Write(p)
	}
	return c.zw.Write(p)
}

// Close flushes the compressor and returns it to the pool.
func (c *CompressedHTTPResponseWriter) Close() error {
	if !c.wroteHeader || c.passThrough {
		gzipWriterPool.Put(c.zw)
		return nil
	}
	if err := c.zw.Close(); err != nil {
		return err
	}
	gzipWriterPool.Put(c.zw)
	return nil
}

// CompressedReader wraps an io.ReadCloser and decompresses its input using gzip.
type CompressedReader struct {
	r  io.ReadCloser
	zr *gzip.Reader
}

// NewCompressedReader returns a reader that decompresses gzip data from
// the provided io.ReadCloser.
func NewCompressedReader(requestBody io.ReadCloser) (*CompressedReader, error) {
	zr, err := gzip.NewReader(requestBody)
	if err != nil {
		return nil, err
	}

	return &CompressedReader{
		r:  requestBody,
		zr: zr,
	}, nil
}

// Read reads decompressed data from the underlying gzip stream.
func (c CompressedReader) Read(p []byte) (n int, err error) {
	return c.zr.Read(p)
}

// Close closes both the gzip reader and the underlying io.ReadCloser.
func (c *CompressedReader) Close() error {
	if err := c.r.Close(); err != nil {
		return err
	}
	return c.zr.Close()
}

// GzipResponse compresses the response when the client accepts gzip.
func GzipResponse(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		finalResponse := response

		if strings.Contains(request.Header.Get("Accept-Encoding"), "gzip") {
			compressed := NewCompressedHTTPResponseWriter(response)
			finalResponse = compressed
			defer compressed.Close()
		}

		h.ServeHTTP(finalResponse, request)
	}

	return http.HandlerFunc(middleware)
}

// UngzipRequest replaces a gzip-encoded request body with a decompressing
// reader before passing the request down the chain.
func UngzipRequest(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		if strings.Contains(request.Header.Get("Content-Encoding"), "gzip") {
			decompressed, err := NewCompressedReader(request.Body)
			if err != nil {
				response.WriteHeader(http.StatusInternalServerError)
				return
			}
			request.Body = decompressed
			defer decompressed.Close()
		}

		h.ServeHTTP(response, request)
	}

	return http.HandlerFunc(middleware)
}
