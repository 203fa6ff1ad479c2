// Package main provides trixsim, a headless simulator that plays full games
// with the rule-based brains. Useful for sanity-checking strategy changes and
// scoring balance without a Nakama server.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"

	"trix/internal/app"
	"trix/internal/bot"
	"trix/internal/config"
	"trix/internal/domain"
)

var (
	games      int
	seed       int64
	difficulty string
	verbose    bool
)

func init() {
	flag.IntVar(&games, "games", 100, "Number of games to simulate")
	flag.Int64Var(&seed, "seed", 0, "Random seed (0 = use current time)")
	flag.StringVar(&difficulty, "difficulty", "medium", "Bot difficulty (easy, medium, hard)")
	flag.BoolVar(&verbose, "verbose", false, "Log every round result")
}

func main() {
	flag.Parse()

	// Optional .env for local overrides, same file the server reads.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not load .env: %v", err)
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	brain, err := bot.NewBrain(bot.ParseLevel(difficulty))
	if err != nil {
		log.Fatalf("unknown difficulty %q: %v", difficulty, err)
	}

	cfg := config.GetGameConfig()
	rules := domain.GameRules{
		ContractsPerKingdom: cfg.ContractsPerKingdom,
		KingdomLimit:        cfg.KingdomLimit,
	}

	fmt.Printf("trixsim: %d games, seed %d, difficulty %s\n", games, seed, difficulty)

	wins := make(map[string]int)
	totals := make(map[string]int)
	contractCounts := make(map[domain.Contract]int)
	deadlocks := 0

	for i := 0; i < games; i++ {
		result, err := runGame(rng, brain, rules)
		if err != nil {
			log.Fatalf("game %d: %v", i+1, err)
		}
		wins[result.winner]++
		for id, score := range result.scores {
			totals[id] += score
		}
		for c, n := range result.contracts {
			contractCounts[c] += n
		}
		deadlocks += result.deadlocks
		if verbose {
			fmt.Printf("game %4d: winner %s scores %v\n", i+1, result.winner, result.scores)
		}
	}

	printSummary(wins, totals, contractCounts, deadlocks, games)
}

type gameResult struct {
	winner    string
	scores    map[string]int
	contracts map[domain.Contract]int
	deadlocks int
}

// runGame plays one full game with every seat driven by the same brain.
func runGame(rng *rand.Rand, brain bot.Brain, rules domain.GameRules) (gameResult, error) {
	svc := app.NewService(rng)

	playerIDs := [domain.NumSeats]string{"sim-north", "sim-east", "sim-south", "sim-west"}
	var bots [domain.NumSeats]bool
	for i := range bots {
		bots[i] = true
	}

	game, _, err := svc.StartGame(rules, playerIDs, bots)
	if err != nil {
		return gameResult{}, err
	}

	result := gameResult{contracts: make(map[domain.Contract]int)}

	for game.Phase != domain.PhaseGameEnd {
		switch game.Phase {
		case domain.PhaseContractSelection:
			contract, err := brain.ChooseContract(game, game.King)
			if err != nil {
				return gameResult{}, err
			}
			if _, err := svc.SelectContract(game, playerIDs[game.King], contract); err != nil {
				return gameResult{}, err
			}
			result.contracts[contract]++
		case domain.PhasePlaying:
			if err := playStep(svc, game, brain, playerIDs); err != nil {
				return gameResult{}, err
			}
		case domain.PhaseTrickComplete:
			if _, err := svc.CompleteTrick(game); err != nil {
				return gameResult{}, err
			}
		case domain.PhaseRoundEnd, domain.PhaseKingdomEnd:
			if game.Phase == domain.PhaseRoundEnd && game.Deadlocked {
				result.deadlocks++
			}
			if _, err := svc.Advance(game); err != nil {
				return gameResult{}, err
			}
		default:
			return gameResult{}, fmt.Errorf("unexpected phase %s", game.Phase)
		}
	}

	result.scores = make(map[string]int)
	best := ""
	for _, p := range game.Players {
		result.scores[p.UserID] = p.Score
		if best == "" || p.Score > result.scores[best] {
			best = p.UserID
		}
	}
	result.winner = best
	return result, nil
}

func playStep(svc *app.Service, game *domain.Game, brain bot.Brain, playerIDs [domain.NumSeats]string) error {
	// Resolve the double window before the first card of a king of hearts round.
	if game.Contract == domain.ContractKingOfHearts && !game.Doubled &&
		len(game.CompletedTricks) == 0 && len(game.CurrentTrick.Plays) == 0 {
		for _, p := range game.Players {
			if !domain.ContainsCard(p.Hand, domain.KingOfHearts) {
				continue
			}
			if brain.ShouldDouble(game, p.Seat) {
				if _, err := svc.DeclareDouble(game, playerIDs[p.Seat]); err != nil {
					return err
				}
			}
			break
		}
	}

	seat := game.Current
	card, err := brain.ChooseCard(game, seat)
	if err != nil {
		return err
	}
	card = bot.Override(game.Contract, card, game.LegalMoves(seat))
	_, err = svc.PlayCard(game, playerIDs[seat], card)
	return err
}

func printSummary(wins, totals map[string]int, contractCounts map[domain.Contract]int, deadlocks, games int) {
	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Println("\nseat results:")
	for _, id := range ids {
		fmt.Printf("  %-10s wins %4d  avg score %+7.1f\n", id, wins[id], float64(totals[id])/float64(games))
	}

	fmt.Println("contract picks:")
	for _, c := range domain.AllContracts {
		if n := contractCounts[c]; n > 0 {
			fmt.Printf("  %-15s %d\n", c, n)
		}
	}
	if deadlocks > 0 {
		fmt.Printf("trex deadlocks: %d\n", deadlocks)
	}
}
