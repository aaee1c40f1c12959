// Command stressbench drives the stack and hashset examples under
// concurrent load against the process-wide hazptr scheme, durably logs
// the retire and reclaim of a periodically retired throwaway object via
// audit (the stack and hashset reclamations are not logged), republishes
// those reclaimed addresses to Kafka via broadcast, and serves live
// occupancy stats over gRPC.
package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"sync"
	"time"
	"unsafe"

	"google.golang.org/grpc"

	"hazptr"
	"hazptr/audit"
	"hazptr/broadcast"
	"hazptr/examples/hashset"
	"hazptr/examples/stack"
	"hazptr/global"
	"hazptr/statsservice"
)

func main() {
	// ---------------- Audit log ----------------

	auditLog, err := audit.Open("./hazptr_audit")
	if err != nil {
		log.Fatalf("audit log init failed: %v", err)
	}
	defer auditLog.Close()

	// ---------------- Workload ----------------

	s := stack.New[int]()
	set := hashset.New[int](func(a, b int) bool { return a < b })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const workers = 8
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		w := w
		go func() {
			defer wg.Done()
			runWorker(ctx, w, s, set)
		}()
	}

	// ---------------- Background jobs ----------------

	go auditedRetireLoop(ctx, auditLog)

	bc, err := broadcast.New(auditLog, []string{"localhost:9092"}, "hazptr-reclaims")
	if err != nil {
		log.Printf("broadcast disabled, Kafka unavailable: %v", err)
	} else {
		bc.Start(ctx, 2*time.Second)
		defer bc.Close()
	}

	// ---------------- gRPC stats ----------------

	lis, err := net.Listen("tcp", ":50051")
	if err != nil {
		log.Fatalf("listen failed: %v", err)
	}

	grpcSrv := grpc.NewServer()
	statsservice.RegisterStatsServiceServer(grpcSrv, statsservice.NewServer(global.Process()))

	fmt.Println("stressbench running, stats on :50051")

	go func() {
		if err := grpcSrv.Serve(lis); err != nil {
			log.Printf("gRPC server exited: %v", err)
		}
	}()

	time.Sleep(5 * time.Second)
	cancel()
	wg.Wait()
	grpcSrv.GracefulStop()
}

// auditedRetireLoop periodically retires a throwaway object through the
// process-wide scheme, durably logging both the retire and the eventual
// reclaim, so audit and broadcast have real activity to carry even when
// the stack/hashset workload above is the only other source.
func auditedRetireLoop(ctx context.Context, auditLog *audit.Log) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			obj := new(int)
			addr := addrOf(obj)
			auditLog.Append(audit.Retired, addr, time.Now())
			hazptr.Retire(obj, func() {
				auditLog.Append(audit.Reclaimed, addr, time.Now())
			})
		}
	}
}

func addrOf(p *int) uintptr {
	return uintptr(unsafe.Pointer(p))
}

func runWorker(ctx context.Context, id int, s *stack.Stack[int], set *hashset.Set[int]) {
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		s.Push(id*1_000_000 + i)
		s.Pop()

		v := id*1_000_000 + i
		set.Insert(v)
		set.Remove(v)
	}
}
