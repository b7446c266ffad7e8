// Package solver computes vehicle routes over an address list.
//
// Every vehicle leaves the depot and returns to it; each route is capped in length.
// Routes are built with a parallel cheapest-arc heuristic (always extend the vehicle whose
// route stays shortest) and then shortened with 2-opt.
package solver

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/samber/lo"

	"routemap/internal/geom"
)

var ErrNoSolution = errors.New("no solution found")

// GlobalSpanCoefficient weighs the longest route in the objective.
const GlobalSpanCoefficient = 100

type Options struct {
	Vehicles       int
	Depot          int
	MaxRouteMeters int
}

func DefaultOptions() Options {
	return Options{Vehicles: 4, Depot: 0, MaxRouteMeters: 30000}
}

type Result struct {
	Routes    geom.RouteSet
	Distances []int // per vehicle, metres
	Objective int
}

// MaxDistance is the length of the longest route.
func (r Result) MaxDistance() int { return lo.Max(r.Distances) }

// DistanceMatrix returns whole-metre haversine distances between every pair of addresses.
func DistanceMatrix(addrs []geom.Address) [][]int {
	n := len(addrs)
	m := make([][]int, n)
	for i := range m {
		m[i] = make([]int, n)
		for j := range m[i] {
			if i != j {
				m[i][j] = int(geom.Haversine(addrs[i].LatLng(), addrs[j].LatLng()))
			}
		}
	}
	return m
}

func routeLength(dist [][]int, route []int) int {
	total := 0
	for i := 1; i < len(route); i++ {
		total += dist[route[i-1]][route[i]]
	}
	return total
}

// Solve assigns every non-depot address to exactly one vehicle.
func Solve(addrs []geom.Address, opts Options) (Result, error) {
	if len(addrs) == 0 {
		return Result{}, fmt.Errorf("%w: no addresses", ErrNoSolution)
	}
	if opts.Vehicles < 1 {
		return Result{}, fmt.Errorf("vehicles must be positive, got %d", opts.Vehicles)
	}
	if opts.Depot < 0 || opts.Depot >= len(addrs) {
		return Result{}, fmt.Errorf("depot %d outside %d addresses", opts.Depot, len(addrs))
	}

	dist := DistanceMatrix(addrs)
	depot := opts.Depot

	routes := make([][]int, opts.Vehicles)
	lengths := make([]int, opts.Vehicles)
	for v := range routes {
		routes[v] = []int{depot}
	}
	visited := make([]bool, len(addrs))
	visited[depot] = true
	remaining := len(addrs) - 1

	for remaining > 0 {
		bestV, bestN, bestLen := -1, -1, 0
		for v := range routes {
			last := routes[v][len(routes[v])-1]
			for n := range addrs {
				if visited[n] {
					continue
				}
				cand := lengths[v] + dist[last][n]
				if cand+dist[n][depot] > opts.MaxRouteMeters {
					continue
				}
				if bestV == -1 || cand < bestLen {
					bestV, bestN, bestLen = v, n, cand
				}
			}
		}
		if bestV == -1 {
			return Result{}, fmt.Errorf("%w: %d addresses unreachable within %dm", ErrNoSolution, remaining, opts.MaxRouteMeters)
		}
		routes[bestV] = append(routes[bestV], bestN)
		lengths[bestV] = bestLen
		visited[bestN] = true
		remaining--
	}

	res := Result{Distances: make([]int, opts.Vehicles)}
	for v, route := range routes {
		route = twoOpt(dist, append(route, depot))
		res.Distances[v] = routeLength(dist, route)
		res.Routes = append(res.Routes, geom.Route{Key: strconv.Itoa(v), Stops: route})
	}
	res.Objective = lo.Sum(res.Distances) + GlobalSpanCoefficient*res.MaxDistance()
	return res, nil
}

// twoOpt reverses inner segments of a closed route while that shortens it.
// The first and last stop stay in place.
func twoOpt(dist [][]int, route []int) []int {
	if len(route) < 5 {
		return route
	}
	improved := true
	for improved {
		improved = false
		for i := 1; i < len(route)-2; i++ {
			for j := i + 1; j < len(route)-1; j++ {
				a, b := route[i-1], route[i]
				c, d := route[j], route[j+1]
				delta := dist[a][c] + dist[b][d] - dist[a][b] - dist[c][d]
				if delta < 0 {
					lo.Reverse(route[i : j+1])
					improved = true
				}
			}
		}
	}
	return route
}
