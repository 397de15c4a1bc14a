package fetcher

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFTPURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantHost string
		wantPath string
		wantErr  bool
	}{
		{
			name:     "standard ftp url",
			url:      "ftp://ftp.example.com/pub/boundaries/file.zip",
			wantHost: "ftp.example.com:21",
			wantPath: "/pub/boundaries/file.zip",
		},
		{
			name:     "ftp url with port",
			url:      "ftp://ftp.example.com:2121/data/counties.geojson",
			wantHost: "ftp.example.com:2121",
			wantPath: "/data/counties.geojson",
		},
		{
			name:     "ftp url with nested path",
			url:      "ftp://ftp2.census.gov/geo/tiger/TIGER2023/COUNTY/tl_2023_us_county.zip",
			wantHost: "ftp2.census.gov:21",
			wantPath: "/geo/tiger/TIGER2023/COUNTY/tl_2023_us_county.zip",
		},
		{
			name:    "http scheme rejected",
			url:     "http://example.com/file.geojson",
			wantErr: true,
		},
		{
			name:    "empty path",
			url:     "ftp://ftp.example.com",
			wantErr: true,
		},
		{
			name:    "invalid url",
			url:     "://bad",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, path, err := parseFTPURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}

func TestNewFTPFetcher_DefaultTimeout(t *testing.T) {
	f := NewFTPFetcher(FTPOptions{})
	assert.Equal(t, 30*time.Second, f.opts.Timeout)
}

// fakeFTPServer speaks just enough FTP (anonymous login, passive mode,
// RETR) to exercise Download against a real connection.
type fakeFTPServer struct {
	listener net.Listener
	files    map[string]string
	wg       sync.WaitGroup
}

func newFakeFTPServer(t *testing.T, files map[string]string) *fakeFTPServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &fakeFTPServer{listener: ln, files: files}
	s.wg.Add(1)
	go s.acceptLoop()
	return s
}

func (s *fakeFTPServer) addr() string { return s.listener.Addr().String() }

func (s *fakeFTPServer) close() {
	s.listener.Close() //nolint:errcheck
	s.wg.Wait()
}

func (s *fakeFTPServer) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go s.session(conn)
	}
}

func (s *fakeFTPServer) session(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close() //nolint:errcheck

	conn.SetDeadline(time.Now().Add(10 * time.Second)) //nolint:errcheck

	w := bufio.NewWriter(conn)
	r := bufio.NewReader(conn)
	reply := func(format string, args ...any) {
		fmt.Fprintf(w, format+"\r\n", args...) //nolint:errcheck
		w.Flush()                              //nolint:errcheck
	}

	reply("220 ready")

	var dataLn net.Listener
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")

		switch strings.ToUpper(cmd) {
		case "USER", "PASS":
			reply("230 logged in")
		case "FEAT":
			reply("211-Features:")
			reply(" UTF8")
			reply("211 End")
		case "TYPE", "OPTS":
			reply("200 OK")
		case "EPSV":
			dataLn, err = net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				reply("425 can't open data connection")
				continue
			}
			reply("229 Entering Extended Passive Mode (|||%d|)", dataLn.Addr().(*net.TCPAddr).Port)
		case "PASV":
			dataLn, err = net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				reply("425 can't open data connection")
				continue
			}
			port := dataLn.Addr().(*net.TCPAddr).Port
			reply("227 Entering Passive Mode (127,0,0,1,%d,%d)", port/256, port%256)
		case "RETR":
			if dataLn == nil {
				reply("425 use PASV first")
				continue
			}
			content, ok := s.files[arg]
			if !ok {
				reply("550 file not found")
				dataLn.Close() //nolint:errcheck
				dataLn = nil
				continue
			}
			reply("150 opening data connection")
			dataConn, err := dataLn.Accept()
			if err != nil {
				reply("425 can't open data connection")
				continue
			}
			io.WriteString(dataConn, content) //nolint:errcheck
			dataConn.Close()                  //nolint:errcheck
			dataLn.Close()                    //nolint:errcheck
			dataLn = nil
			reply("226 transfer complete")
		case "QUIT":
			reply("221 goodbye")
			return
		default:
			reply("502 not implemented")
		}
	}
}

func TestFTPFetcher_Download(t *testing.T) {
	srv := newFakeFTPServer(t, map[string]string{
		"/geo/counties.geojson": `{"type":"FeatureCollection","features":[]}`,
	})
	defer srv.close()

	f := NewFTPFetcher(FTPOptions{Timeout: 5 * time.Second})

	rc, err := f.Download(context.Background(), fmt.Sprintf("ftp://%s/geo/counties.geojson", srv.addr()))
	require.NoError(t, err)
	defer rc.Close() //nolint:errcheck

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"FeatureCollection","features":[]}`, string(data))
}

func TestFTPFetcher_Download_ReadThenClose(t *testing.T) {
	srv := newFakeFTPServer(t, map[string]string{
		"/data.txt": "read close test",
	})
	defer srv.close()

	f := NewFTPFetcher(FTPOptions{Timeout: 5 * time.Second})

	rc, err := f.Download(context.Background(), fmt.Sprintf("ftp://%s/data.txt", srv.addr()))
	require.NoError(t, err)

	buf := make([]byte, 4)
	n, err := rc.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "read", string(buf))

	// Close drains the response and quits the control connection.
	require.NoError(t, rc.Close())
}

func TestFTPFetcher_Download_FileNotFound(t *testing.T) {
	srv := newFakeFTPServer(t, map[string]string{
		"/present.txt": "data",
	})
	defer srv.close()

	f := NewFTPFetcher(FTPOptions{Timeout: 5 * time.Second})

	_, err := f.Download(context.Background(), fmt.Sprintf("ftp://%s/missing.txt", srv.addr()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ftp retrieve")
}

func TestFTPFetcher_Download_SchemeRejected(t *testing.T) {
	f := NewFTPFetcher(FTPOptions{Timeout: 5 * time.Second})

	_, err := f.Download(context.Background(), "http://not-ftp/path")
	require.Error(t, err)
}

func TestFTPFetcher_Download_ConnectionRefused(t *testing.T) {
	f := NewFTPFetcher(FTPOptions{Timeout: 2 * time.Second})

	_, err := f.Download(context.Background(), "ftp://127.0.0.1:19999/path/file.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ftp dial")
}
