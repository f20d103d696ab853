package http

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

// Compressor state is pooled; every request body and response envelope on
// the console API is small JSON, so writers are reset far more often than
// they are allocated.
var (
	gzipWriterPool = sync.Pool{
		New: func() any { return gzip.NewWriter(nil) },
	}
	gzipReaderPool = sync.Pool{
		New: func() any { return new(gzip.Reader) },
	}
)

// withGZip transparently inflates gzip request bodies and, when the client
// advertises gzip support, compresses the response envelope.
func withGZip(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if strings.Contains(req.Header.Get("Content-Encoding"), "gzip") && req.Body != nil {
			body, ok := inflateBody(req.Body)
			if !ok {
				http.Error(w, "Invalid gzip data", http.StatusBadRequest)
				return
			}
			req.Body = body
			req.Header.Del("Content-Encoding")
		}

		if !strings.Contains(req.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, req)
			return
		}

		zw := gzipWriterPool.Get().(*gzip.Writer)
		zw.Reset(w)

		w.Header().Set("Vary", "Accept-Encoding")
		next.ServeHTTP(&deflatingWriter{ResponseWriter: w, zw: zw}, req)

		zw.Close()
		gzipWriterPool.Put(zw)
	})
}

// inflateBody wraps a gzip-encoded request body in a pooled reader. The
// reader returns to the pool when the body is closed.
func inflateBody(body io.ReadCloser) (io.ReadCloser, bool) {
	zr := gzipReaderPool.Get().(*gzip.Reader)
	if err := zr.Reset(body); err != nil {
		gzipReaderPool.Put(zr)
		return nil, false
	}
	return &inflatedBody{zr: zr}, true
}

type inflatedBody struct {
	zr *gzip.Reader
}

func (b *inflatedBody) Read(p []byte) (int, error) { return b.zr.Read(p) }

func (b *inflatedBody) Close() error {
	err := b.zr.Close()
	gzipReaderPool.Put(b.zr)
	b.zr = nil
	return err
}

type deflatingWriter struct {
	http.ResponseWriter
	zw *gzip.Writer
}

func (w *deflatingWriter) WriteHeader(statusCode int) {
	w.Header().Set("Content-Encoding", "gzip")
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *deflatingWriter) Write(data []byte) (int, error) {
	return w.zw.Write(data)
}
