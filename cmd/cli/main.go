// Command cli is a small ad-hoc query tool for the resolve package, in the
// same spirit as the teacher's cmd/cli (query one name, print the answer,
// exit), adapted to the new Client API and QueryOptions surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/holmgren/resolve"
)

func main() {
	var (
		qtypeFlag = flag.String("type", "A", "record type: A, AAAA, NS, CNAME, SOA")
		timeout   = flag.Duration("timeout", 5*time.Second, "query timeout")
		server    = flag.String("server", "", "server to query, host:port (default: system resolvers)")
		trace     = flag.Bool("trace", false, "print an audit trail to stderr")
	)
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: cli [flags] <name>")
		os.Exit(2)
	}
	name := flag.Arg(0)
	qtype := qtypeFromString(*qtypeFlag)

	var opts []resolve.ClientOption
	if *trace {
		opts = append(opts, resolve.WithClientAudit(resolve.NewTraceAudit(os.Stderr)))
	}

	var userServers []*resolve.ServerEndpoint
	if *server != "" {
		ep, err := resolve.ParseServerEndpoint(*server)
		if err != nil {
			fmt.Fprintln(os.Stderr, "invalid -server:", err)
			os.Exit(2)
		}
		userServers = append(userServers, ep)
	}

	client := resolve.New(userServers, resolve.NewResolvConfDiscovery(), opts...)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout+time.Second)
	defer cancel()

	queryOpts := []resolve.Option{resolve.WithTimeout(*timeout)}
	if len(userServers) > 0 {
		queryOpts = append(queryOpts, resolve.WithServers(userServers...))
	}
	resp, err := client.Query(ctx, name, qtype, queryOpts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "query failed:", err)
		os.Exit(1)
	}

	fmt.Printf(";; rcode=%d truncated=%v authoritative=%v\n", resp.Rcode, resp.Truncated, resp.Authoritative)
	for _, a := range resp.Answers {
		fmt.Printf("%s\t%d\tTYPE%d\t%v\n", a.Name, a.TTL, a.Type, a.RData)
	}
	if resp.Origin != nil {
		fmt.Println(";; SERVER:", resp.Origin.String())
	}
}

func qtypeFromString(s string) uint16 {
	switch s {
	case "A":
		return resolve.TypeA
	case "AAAA":
		return resolve.TypeAAAA
	case "NS":
		return resolve.TypeNS
	case "CNAME":
		return resolve.TypeCNAME
	case "SOA":
		return resolve.TypeSOA
	default:
		return resolve.TypeA
	}
}
