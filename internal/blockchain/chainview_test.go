// Copyright (c) 2024-2026 The myrd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"
	"time"

	"github.com/myriadteam/myrd/chaincfg"
)

// TestChainView ensures all of the exported functionality of chain views
// works as intended with the exception of some special cases which are
// handled in other tests.
func TestChainView(t *testing.T) {
	params := chaincfg.MainNetParams()

	// Construct a synthetic block index consisting of the following
	// structure.
	//
	//	0 -> 1 -> 2  -> 3  -> 4
	//	           \-> 3a -> 4a -> 5a
	genesis := newFakeNode(nil, 1, params.PowLimitBits,
		params.GenesisBlock.Timestamp, params)
	branch0Nodes := chainedFakeNodes(genesis, 4, params)
	branch1Nodes := chainedFakeNodes(branch0Nodes[1], 3, params)

	tip := branchTip
	tests := []struct {
		name        string
		view        *chainView // active view
		genesis     *blockNode // expected genesis block of active view
		tip         *blockNode // expected tip of active view
		sideTip     *blockNode // tip of the competing branch
		fork        *blockNode // expected fork node
		contained   []*blockNode
		uncontained []*blockNode
	}{
		{
			name:        "chain0 vs chain1",
			view:        newChainView(tip(branch0Nodes)),
			genesis:     genesis,
			tip:         tip(branch0Nodes),
			sideTip:     tip(branch1Nodes),
			fork:        branch0Nodes[1],
			contained:   branch0Nodes,
			uncontained: branch1Nodes,
		},
		{
			name:        "chain1 vs chain0",
			view:        newChainView(tip(branch1Nodes)),
			genesis:     genesis,
			tip:         tip(branch1Nodes),
			sideTip:     tip(branch0Nodes),
			fork:        branch0Nodes[1],
			contained:   append([]*blockNode{branch0Nodes[0], branch0Nodes[1]}, branch1Nodes...),
			uncontained: branch0Nodes[2:],
		},
	}

	for _, test := range tests {
		if got := test.view.Genesis(); got != test.genesis {
			t.Errorf("%s: genesis: got %v, want %v", test.name, got,
				test.genesis)
			continue
		}
		if got := test.view.Tip(); got != test.tip {
			t.Errorf("%s: tip: got %v, want %v", test.name, got, test.tip)
			continue
		}
		if got, want := test.view.Height(), test.tip.height; got != want {
			t.Errorf("%s: height: got %d, want %d", test.name, got, want)
			continue
		}

		// The fork point of the side chain tip against the view and the
		// fork point of the view tip against itself.
		if got := test.view.FindFork(test.sideTip); got != test.fork {
			t.Errorf("%s: fork: got %v, want %v", test.name, got, test.fork)
			continue
		}
		if got := test.view.FindFork(test.tip); got != test.tip {
			t.Errorf("%s: fork with self: got %v, want %v", test.name, got,
				test.tip)
			continue
		}
		if got := test.view.FindFork(nil); got != nil {
			t.Errorf("%s: fork with nil: got %v, want nil", test.name, got)
			continue
		}

		for _, node := range test.contained {
			if !test.view.Contains(node) {
				t.Errorf("%s: expected %v to be contained", test.name, node)
			}
			if got := test.view.NodeByHeight(node.height); got != node {
				t.Errorf("%s: node by height %d: got %v, want %v", test.name,
					node.height, got, node)
			}
		}
		for _, node := range test.uncontained {
			if test.view.Contains(node) {
				t.Errorf("%s: expected %v to not be contained", test.name,
					node)
			}
		}

		// Next of the tip is nil, next of an uncontained node is nil, and
		// next of any other contained node is the node one height above.
		if got := test.view.Next(test.tip); got != nil {
			t.Errorf("%s: next of tip: got %v, want nil", test.name, got)
		}
		if got := test.view.Next(test.uncontained[0]); got != nil {
			t.Errorf("%s: next of uncontained: got %v, want nil", test.name,
				got)
		}
		if got, want := test.view.Next(genesis), test.view.NodeByHeight(1); got != want {
			t.Errorf("%s: next of genesis: got %v, want %v", test.name, got,
				want)
		}
	}
}

// TestChainViewSetTip ensures changing the tip works as intended including
// capacity changes and that the nodes are migrated properly between views.
func TestChainViewSetTip(t *testing.T) {
	params := chaincfg.MainNetParams()
	genesis := newFakeNode(nil, 1, params.PowLimitBits,
		params.GenesisBlock.Timestamp, params)
	branch0Nodes := chainedFakeNodes(genesis, 10, params)
	branch1Nodes := chainedFakeNodes(branch0Nodes[4], 20, params)

	view := newChainView(nil)
	if got := view.Tip(); got != nil {
		t.Fatalf("tip of empty view: got %v, want nil", got)
	}
	if got := view.Height(); got != -1 {
		t.Fatalf("height of empty view: got %d, want -1", got)
	}
	if got := view.Genesis(); got != nil {
		t.Fatalf("genesis of empty view: got %v, want nil", got)
	}

	// Extend to the first branch tip, reorganize to the longer second
	// branch, then back to the shorter first branch.
	for _, tipNode := range []*blockNode{branchTip(branch0Nodes),
		branchTip(branch1Nodes), branchTip(branch0Nodes)} {

		view.SetTip(tipNode)
		if got := view.Tip(); got != tipNode {
			t.Fatalf("tip: got %v, want %v", got, tipNode)
		}
		if got, want := view.Height(), tipNode.height; got != want {
			t.Fatalf("height: got %d, want %d", got, want)
		}

		// Every node between genesis and the tip must be exactly the
		// ancestors of the new tip.
		for height := int64(0); height <= tipNode.height; height++ {
			want := tipNode.Ancestor(height)
			if got := view.NodeByHeight(height); got != want {
				t.Fatalf("node by height %d after set tip to %v: got %v, "+
					"want %v", height, tipNode, got, want)
			}
		}
	}

	// Setting a nil tip empties the view again.
	view.SetTip(nil)
	if got := view.Height(); got != -1 {
		t.Fatalf("height after nil tip: got %d, want -1", got)
	}
}

// TestChainViewNil ensures that creating and accessing a nil chain view
// behaves as intended.
func TestChainViewNil(t *testing.T) {
	view := newChainView(nil)
	if got := view.NodeByHeight(0); got != nil {
		t.Fatalf("node by height on empty view: got %v, want nil", got)
	}
	if got := view.FindFork(nil); got != nil {
		t.Fatalf("fork on empty view: got %v, want nil", got)
	}
	if got := view.BlockLocator(nil); got != nil {
		t.Fatalf("locator on empty view: got %v, want nil", got)
	}
}

// TestFindForkDisconnected ensures that finding the fork point with a node
// that shares no history with the view returns nil rather than a bogus
// node.
func TestFindForkDisconnected(t *testing.T) {
	params := chaincfg.MainNetParams()
	genesis := newFakeNode(nil, 1, params.PowLimitBits,
		params.GenesisBlock.Timestamp, params)
	view := newChainView(branchTip(chainedFakeNodes(genesis, 5, params)))

	otherGenesis := newFakeNode(nil, 1, params.PowLimitBits,
		params.GenesisBlock.Timestamp, params)
	unrelated := branchTip(chainedFakeNodes(otherGenesis, 3, params))
	if got := view.FindFork(unrelated); got != nil {
		t.Fatalf("fork with unrelated chain: got %v, want nil", got)
	}
}

// TestFindEarliestAtLeast ensures searching the view by time finds the
// earliest block whose running maximum timestamp reaches the requested time.
func TestFindEarliestAtLeast(t *testing.T) {
	params := chaincfg.MainNetParams()
	genesis := newFakeNode(nil, 1, params.PowLimitBits,
		params.GenesisBlock.Timestamp, params)
	nodes := chainedFakeNodes(genesis, 10, params)
	view := newChainView(branchTip(nodes))

	// Exact timestamp of a block finds that block.
	target := nodes[4]
	if got := view.FindEarliestAtLeast(target.timestamp); got != target {
		t.Fatalf("exact timestamp: got %v, want %v", got, target)
	}

	// A time between two blocks finds the later one.
	between := target.timestamp + 1
	if got := view.FindEarliestAtLeast(between); got != nodes[5] {
		t.Fatalf("between timestamps: got %v, want %v", got, nodes[5])
	}

	// A time before the genesis block finds the genesis block and a time
	// after the tip finds nothing.
	if got := view.FindEarliestAtLeast(genesis.timestamp - 1e6); got != genesis {
		t.Fatalf("before genesis: got %v, want %v", got, genesis)
	}
	tipNode := branchTip(nodes)
	if got := view.FindEarliestAtLeast(tipNode.timestamp + 1); got != nil {
		t.Fatalf("after tip: got %v, want nil", got)
	}

	// A block with a timestamp earlier than its parent must not be found
	// before the parent since the search is over the running maximum.
	backdated := newFakeNode(tipNode, 1, params.PowLimitBits,
		time.Unix(tipNode.timestamp-30, 0), params)
	view.SetTip(backdated)
	if got := view.FindEarliestAtLeast(tipNode.timestamp); got != tipNode {
		t.Fatalf("backdated tip: got %v, want %v", got, tipNode)
	}
}

// TestBlockLocator ensures the block locator returned by the chain view has
// the expected shape, namely dense hashes for the most recent blocks followed
// by exponentially spaced hashes ending in the genesis block.
func TestBlockLocator(t *testing.T) {
	params := chaincfg.MainNetParams()
	genesis := newFakeNode(nil, 1, params.PowLimitBits,
		params.GenesisBlock.Timestamp, params)
	nodes := chainedFakeNodes(genesis, 127, params)
	all := append([]*blockNode{genesis}, nodes...)
	view := newChainView(branchTip(nodes))

	// Locator for the tip of a 127 block chain.  The first 11 entries are
	// the dense recent history, then the step doubles each entry, and the
	// genesis block is always last.
	wantHeights := []int64{127, 126, 125, 124, 123, 122, 121, 120, 119,
		118, 117, 115, 111, 103, 87, 55, 0}
	locator := view.BlockLocator(nil)
	if len(locator) != len(wantHeights) {
		t.Fatalf("locator length: got %d, want %d", len(locator),
			len(wantHeights))
	}
	for i, wantHeight := range wantHeights {
		if *locator[i] != all[wantHeight].hash {
			t.Errorf("locator[%d]: got %s, want %s (height %d)", i,
				locator[i], all[wantHeight].hash, wantHeight)
		}
	}

	// A locator for a short chain includes every block.
	shortView := newChainView(all[5])
	locator = shortView.BlockLocator(nil)
	if len(locator) != 6 {
		t.Fatalf("short locator length: got %d, want 6", len(locator))
	}
	for i := 0; i < 6; i++ {
		if *locator[i] != all[5-i].hash {
			t.Errorf("short locator[%d]: got %s, want %s", i, locator[i],
				all[5-i].hash)
		}
	}

	// A locator for a node back in the view uses the view for the walk and
	// still terminates at the genesis block.
	locator = view.BlockLocator(all[20])
	if len(locator) == 0 || *locator[0] != all[20].hash {
		t.Fatal("locator for interior node does not start at the node")
	}
	if *locator[len(locator)-1] != genesis.hash {
		t.Fatal("locator does not end at the genesis block")
	}

	// A locator for a side chain node walks through the side chain into
	// the shared history.
	sideNodes := chainedFakeNodes(all[100], 15, params)
	locator = view.BlockLocator(branchTip(sideNodes))
	if *locator[len(locator)-1] != genesis.hash {
		t.Fatal("side chain locator does not end at the genesis block")
	}
	if *locator[0] != branchTip(sideNodes).hash {
		t.Fatal("side chain locator does not start at the requested node")
	}
}
