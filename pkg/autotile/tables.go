package autotile

// Seamless3x3 tiles terrain drawn with seamless edges.
var Seamless3x3 = NewLibrary("seamless3x3",
	Rule{0, Template{2, 0, 2, 0, 1, 1, 2, 1, 1}},
	Rule{1, Template{2, 0, 2, 1, 1, 1, 1, 1, 1}},
	Rule{2, Template{2, 0, 2, 1, 1, 0, 1, 1, 2}},
	Rule{3, Template{0, 0, 0, 0, 1, 0, 2, 1, 2}},
	Rule{4, Template{2, 0, 2, 0, 1, 1, 2, 0, 2}},
	Rule{5, Template{2, 0, 2, 1, 1, 0, 2, 0, 2}},
	Rule{6, Template{2, 1, 1, 0, 1, 1, 2, 1, 1}},
	Rule{7, Template{1, 1, 1, 1, 1, 1, 1, 1, 1}},
	Rule{8, Template{1, 1, 2, 1, 1, 0, 1, 1, 2}},
	Rule{9, Template{2, 1, 2, 0, 1, 0, 2, 0, 2}},
	Rule{10, Template{1, 1, 0, 1, 1, 1, 1, 1, 1}},
	Rule{11, Template{0, 1, 1, 1, 1, 1, 1, 1, 1}},
	Rule{12, Template{2, 1, 1, 0, 1, 1, 2, 0, 2}},
	Rule{13, Template{1, 1, 1, 1, 1, 1, 2, 0, 2}},
	Rule{14, Template{1, 1, 2, 1, 1, 0, 2, 0, 2}},
	Rule{15, Template{2, 0, 2, 1, 1, 1, 2, 0, 2}},
	Rule{16, Template{1, 1, 1, 1, 1, 1, 0, 1, 0}},
	Rule{17, Template{2, 1, 2, 0, 1, 0, 2, 1, 2}},
	Rule{18, Template{2, 1, 0, 0, 1, 1, 2, 1, 1}},
	Rule{19, Template{0, 1, 2, 1, 1, 0, 1, 1, 2}},
	Rule{20, Template{2, 1, 0, 0, 1, 1, 2, 1, 0}},
	Rule{21, Template{0, 1, 2, 1, 1, 0, 0, 1, 2}},
	Rule{22, Template{1, 1, 0, 1, 1, 1, 1, 1, 0}},
	Rule{23, Template{0, 1, 1, 1, 1, 1, 0, 1, 1}},
	Rule{24, Template{2, 0, 2, 1, 1, 1, 1, 1, 0}},
	Rule{25, Template{2, 0, 2, 1, 1, 1, 0, 1, 1}},
	Rule{26, Template{2, 0, 2, 1, 1, 1, 0, 1, 0}},
	Rule{27, Template{2, 1, 0, 0, 1, 1, 2, 0, 2}},
	Rule{28, Template{0, 1, 2, 1, 1, 0, 2, 0, 2}},
	Rule{29, Template{2, 0, 2, 0, 1, 0, 2, 0, 2}},
	Rule{30, Template{2, 0, 2, 0, 1, 1, 2, 1, 0}},
	Rule{31, Template{2, 0, 2, 1, 1, 0, 0, 1, 2}},
	Rule{32, Template{0, 1, 0, 1, 1, 1, 0, 1, 0}},
	Rule{33, Template{2, 1, 1, 0, 1, 1, 2, 1, 0}},
	Rule{34, Template{1, 1, 2, 1, 1, 0, 0, 1, 2}},
	Rule{35, Template{0, 1, 0, 1, 1, 1, 2, 0, 2}},
	Rule{36, Template{0, 1, 0, 1, 1, 1, 1, 1, 0}},
	Rule{37, Template{0, 1, 0, 1, 1, 1, 0, 1, 1}},
	Rule{38, Template{0, 1, 1, 1, 1, 1, 2, 0, 2}},
	Rule{39, Template{1, 1, 0, 1, 1, 1, 2, 0, 2}},
	Rule{40, Template{1, 1, 1, 1, 1, 1, 1, 1, 0}},
	Rule{41, Template{1, 1, 1, 1, 1, 1, 0, 1, 1}},
	Rule{42, Template{1, 1, 0, 1, 1, 1, 0, 1, 0}},
	Rule{43, Template{0, 1, 1, 1, 1, 1, 0, 1, 0}},
	Rule{44, Template{0, 1, 0, 1, 1, 1, 1, 1, 1}},
	Rule{49, Template{0, 1, 2, 1, 1, 1, 2, 1, 0}},
	Rule{48, Template{2, 1, 0, 1, 1, 1, 0, 1, 2}},
	// Second shape for 3; grouped with the first.
	Rule{3, Template{2, 0, 2, 0, 1, 0, 2, 1, 2}},
)

// Block3x3 tiles solid blocks.
var Block3x3 = NewLibrary("block3x3",
	Rule{0, Template{0, 0, 0, 0, 1, 1, 0, 1, 1}},
	Rule{1, Template{0, 0, 0, 1, 1, 1, 1, 1, 1}},
	Rule{2, Template{0, 0, 0, 1, 1, 0, 1, 1, 0}},
	Rule{3, Template{0, 1, 1, 0, 1, 1, 0, 1, 1}},
	Rule{4, Template{1, 1, 1, 1, 1, 1, 1, 1, 1}},
	Rule{5, Template{1, 1, 0, 1, 1, 0, 1, 1, 0}},
	Rule{6, Template{0, 1, 1, 0, 1, 1, 0, 0, 0}},
	Rule{7, Template{1, 1, 1, 1, 1, 1, 0, 0, 0}},
	Rule{8, Template{1, 1, 0, 1, 1, 0, 0, 0, 0}},
)

// Fence tiles fence runs.
var Fence = NewLibrary("fence",
	Rule{0, Template{2, 1, 2, 0, 1, 0, 2, 0, 2}},
	Rule{1, Template{2, 1, 2, 0, 1, 0, 2, 1, 2}},
	Rule{2, Template{2, 0, 2, 0, 1, 0, 0, 1, 0}},
	Rule{3, Template{2, 0, 0, 0, 1, 1, 0, 1, 2}},
	Rule{4, Template{0, 0, 2, 1, 1, 0, 2, 1, 0}},
	Rule{5, Template{2, 0, 0, 0, 1, 1, 2, 0, 0}},
	Rule{6, Template{2, 0, 2, 1, 1, 1, 2, 0, 2}},
	Rule{7, Template{0, 0, 2, 1, 1, 0, 0, 0, 2}},
	Rule{8, Template{0, 1, 2, 0, 1, 1, 2, 0, 0}},
	Rule{9, Template{2, 1, 0, 1, 1, 0, 0, 0, 2}},
	Rule{10, Template{2, 0, 2, 0, 1, 0, 2, 0, 2}},
	Rule{11, Template{2, 1, 2, 1, 1, 1, 2, 1, 2}},
)

// HardBorder tiles edges drawn over the tile of the layer below.
var HardBorder = NewLibrary("hardborder",
	Rule{0, Template{2, 0, 2, 0, 1, 1, 2, 1, 2}},
	Rule{1, Template{2, 0, 2, 1, 1, 1, 2, 1, 2}},
	Rule{2, Template{2, 0, 2, 1, 1, 0, 2, 1, 2}},
	Rule{3, Template{2, 0, 2, 0, 1, 0, 2, 0, 2}},
	Rule{4, Template{2, 1, 2, 0, 1, 1, 2, 1, 2}},
	Rule{5, Template{0, 0, 0, 0, 0, 0, 0, 0, 0}},
	Rule{6, Template{2, 1, 2, 1, 1, 0, 2, 1, 2}},
	Rule{7, Template{2, 0, 2, 0, 1, 0, 2, 1, 2}},
	Rule{8, Template{2, 1, 2, 0, 1, 1, 2, 0, 2}},
	Rule{9, Template{2, 1, 2, 1, 1, 1, 2, 0, 2}},
	Rule{10, Template{2, 1, 2, 1, 1, 0, 2, 0, 2}},
	Rule{11, Template{2, 1, 2, 0, 1, 0, 2, 1, 2}},
	Rule{12, Template{2, 0, 2, 0, 1, 1, 2, 0, 2}},
	Rule{13, Template{2, 0, 2, 1, 1, 1, 2, 0, 2}},
	Rule{14, Template{2, 0, 2, 1, 1, 0, 2, 0, 2}},
	Rule{15, Template{2, 1, 2, 0, 1, 0, 2, 0, 2}},
	Rule{16, Template{0, 1, 2, 1, 1, 1, 2, 1, 2}},
	Rule{17, Template{2, 1, 0, 1, 1, 1, 2, 1, 2}},
	Rule{18, Template{2, 1, 2, 1, 1, 1, 2, 1, 0}},
	Rule{19, Template{2, 1, 2, 1, 1, 1, 0, 1, 2}},
)
