package main

import (
	"flag"
	"log"

	"github.com/thereayou/microblog/cmd/server"
)

func main() {
	reindex := flag.Bool("reindex", false, "rebuild the search index from the database before start")
	flag.Parse()

	s := server.NewServer()

	if *reindex {
		log.Println("Rebuilding search index...")
		if err := s.DB.ReindexPosts(s.Index); err != nil {
			log.Fatalf("Reindex failed: %v", err)
		}
		log.Println("Search index rebuilt")
	}

	s.Run()
}
