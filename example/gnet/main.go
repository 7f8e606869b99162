package main

import (
	"github.com/lixenwraith/flog"
	"github.com/lixenwraith/flog/compat"
	"github.com/lixenwraith/flog/filesink"
	"github.com/panjf2000/gnet/v2"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	c.Write(buf)
	return gnet.None
}

func main() {
	sink, err := filesink.NewBuilder().
		Directory("/var/log/gnet").
		Override("level=debug", "archive_count=7").
		Build()
	if err != nil {
		panic(err)
	}
	reg := flog.NewRegistry(sink)
	defer reg.Close()

	// Arguments stay values so the sink renders and sanitizes them
	gnetAdapter, err := compat.NewBuilder().WithRegistry(reg).BuildStructuredGnet()
	if err != nil {
		panic(err)
	}

	// Configure gnet server with the logger
	err = gnet.Run(
		&echoServer{},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		panic(err)
	}
}
