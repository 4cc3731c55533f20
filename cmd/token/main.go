// Command token mints a development access token signed with the server's
// secret key.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/timeline/internal/flagx"
	"github.com/dmitrijs2005/timeline/internal/server/auth"
	"github.com/dmitrijs2005/timeline/internal/server/config"
)

func main() {

	cfg := config.LoadConfig()

	var userID string
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	fs.StringVar(&userID, "user", "", "user id to put in the token")
	if err := fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-user", "--user"})); err != nil {
		log.Fatalf("%v", err)
	}

	if userID == "" {
		log.Fatal("-user is required")
	}

	token, err := auth.GenerateToken(userID, []byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Println(token)

}
