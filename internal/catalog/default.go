package catalog

import "sync"

// defaultStars are the 57 navigational stars in navigational order, plus
// Polaris, which has no navigational number.
// Coordinates are J2000 epoch; names follow IAU usage.
var defaultStars = []Star{
	{677, 1, "Alpheratz", "Альферац", "Andromeda", "Андромеда", "α", 2.097, 29.091, 2.06, -0.11},
	{2081, 2, "Ankaa", "Анкаа", "Phoenix", "Феникс", "α", 6.571, -42.306, 2.38, 1.09},
	{3179, 3, "Schedar", "Шедар", "Cassiopeia", "Кассиопея", "α", 10.127, 56.537, 2.23, 1.17},
	{3419, 4, "Diphda", "Дифда", "Cetus", "Кит", "β", 10.897, -17.987, 2.04, 1.02},
	{7588, 5, "Achernar", "Ахернар", "Eridanus", "Эридан", "α", 24.429, -57.237, 0.46, -0.16},
	{9884, 6, "Hamal", "Гамаль", "Aries", "Овен", "α", 31.793, 23.463, 2.00, 1.15},
	{13847, 7, "Acamar", "Акамар", "Eridanus", "Эридан", "θ", 44.565, -40.305, 2.88, 0.13},
	{14135, 8, "Menkar", "Менкар", "Cetus", "Кит", "α", 45.570, 4.090, 2.54, 1.64},
	{15863, 9, "Mirfak", "Мирфак", "Perseus", "Персей", "α", 51.081, 49.861, 1.79, 0.48},
	{21421, 10, "Aldebaran", "Альдебаран", "Taurus", "Телец", "α", 68.980, 16.509, 0.85, 1.54},
	{24436, 11, "Rigel", "Ригель", "Orion", "Орион", "β", 78.634, -8.202, 0.13, -0.03},
	{24608, 12, "Capella", "Капелла", "Auriga", "Возничий", "α", 79.172, 45.998, 0.08, 0.80},
	{25336, 13, "Bellatrix", "Беллатрикс", "Orion", "Орион", "γ", 81.283, 6.350, 1.64, -0.22},
	{25428, 14, "Elnath", "Эльнат", "Taurus", "Телец", "β", 81.573, 28.608, 1.65, -0.13},
	{26311, 15, "Alnilam", "Альнилам", "Orion", "Орион", "ε", 84.053, -1.202, 1.69, -0.18},
	{27989, 16, "Betelgeuse", "Бетельгейзе", "Orion", "Орион", "α", 88.793, 7.407, 0.50, 1.85},
	{30438, 17, "Canopus", "Канопус", "Carina", "Киль", "α", 95.988, -52.696, -0.74, 0.15},
	{32349, 18, "Sirius", "Сириус", "Canis Major", "Большой Пёс", "α", 101.287, -16.716, -1.46, 0.00},
	{33579, 19, "Adhara", "Адара", "Canis Major", "Большой Пёс", "ε", 104.656, -28.972, 1.50, -0.21},
	{37279, 20, "Procyon", "Процион", "Canis Minor", "Малый Пёс", "α", 114.826, 5.225, 0.34, 0.42},
	{37826, 21, "Pollux", "Поллукс", "Gemini", "Близнецы", "β", 116.329, 28.026, 1.14, 1.00},
	{41037, 22, "Avior", "Авиор", "Carina", "Киль", "ε", 125.629, -59.509, 1.86, 1.28},
	{44816, 23, "Suhail", "Сухайль", "Vela", "Паруса", "λ", 136.999, -43.433, 2.21, 1.66},
	{45238, 24, "Miaplacidus", "Миаплацидус", "Carina", "Киль", "β", 138.300, -69.717, 1.68, 0.07},
	{46390, 25, "Alphard", "Альфард", "Hydra", "Гидра", "α", 141.897, -8.659, 2.00, 1.44},
	{49669, 26, "Regulus", "Регул", "Leo", "Лев", "α", 152.093, 11.967, 1.35, -0.11},
	{54061, 27, "Dubhe", "Дубхе", "Ursa Major", "Большая Медведица", "α", 165.932, 61.751, 1.79, 1.07},
	{57632, 28, "Denebola", "Денебола", "Leo", "Лев", "β", 177.265, 14.572, 2.13, 0.09},
	{59803, 29, "Gienah", "Гиена", "Corvus", "Ворон", "γ", 183.952, -17.542, 2.59, -0.11},
	{60718, 30, "Acrux", "Акрукс", "Crux", "Южный Крест", "α", 186.650, -63.099, 0.76, -0.24},
	{61084, 31, "Gacrux", "Гакрукс", "Crux", "Южный Крест", "γ", 187.791, -57.113, 1.63, 1.60},
	{62956, 32, "Alioth", "Алиот", "Ursa Major", "Большая Медведица", "ε", 193.507, 55.960, 1.77, -0.02},
	{65474, 33, "Spica", "Спика", "Virgo", "Дева", "α", 201.298, -11.161, 0.97, -0.23},
	{67301, 34, "Alkaid", "Алькаид", "Ursa Major", "Большая Медведица", "η", 206.885, 49.313, 1.86, -0.19},
	{68702, 35, "Hadar", "Хадар", "Centaurus", "Центавр", "β", 210.956, -60.373, 0.61, -0.23},
	{68933, 36, "Menkent", "Менкент", "Centaurus", "Центавр", "θ", 211.671, -36.370, 2.06, 1.01},
	{69673, 37, "Arcturus", "Арктур", "Boötes", "Волопас", "α", 213.915, 19.182, -0.05, 1.23},
	{71683, 38, "Rigil Kentaurus", "Ригиль Кентаурус", "Centaurus", "Центавр", "α", 219.902, -60.834, -0.27, 0.71},
	{72622, 39, "Zubenelgenubi", "Зубен-эль-Генуби", "Libra", "Весы", "α", 222.720, -16.042, 2.75, 0.15},
	{72607, 40, "Kochab", "Кохаб", "Ursa Minor", "Малая Медведица", "β", 222.676, 74.156, 2.08, 1.47},
	{76267, 41, "Alphecca", "Альфекка", "Corona Borealis", "Северная Корона", "α", 233.672, 26.715, 2.23, -0.02},
	{80763, 42, "Antares", "Антарес", "Scorpius", "Скорпион", "α", 247.352, -26.432, 0.96, 1.83},
	{82273, 43, "Atria", "Атрия", "Triangulum Australe", "Южный Треугольник", "α", 252.166, -69.028, 1.92, 1.44},
	{84012, 44, "Sabik", "Сабик", "Ophiuchus", "Змееносец", "η", 257.595, -15.725, 2.43, 0.06},
	{85927, 45, "Shaula", "Шаула", "Scorpius", "Скорпион", "λ", 263.402, -37.104, 1.63, -0.22},
	{86032, 46, "Rasalhague", "Расальхаг", "Ophiuchus", "Змееносец", "α", 263.734, 12.560, 2.08, 0.15},
	{87833, 47, "Eltanin", "Этамин", "Draco", "Дракон", "γ", 269.152, 51.489, 2.23, 1.52},
	{90185, 48, "Kaus Australis", "Каус Аустралис", "Sagittarius", "Стрелец", "ε", 276.043, -34.384, 1.85, -0.03},
	{91262, 49, "Vega", "Вега", "Lyra", "Лира", "α", 279.235, 38.784, 0.03, 0.00},
	{92855, 50, "Nunki", "Нунки", "Sagittarius", "Стрелец", "σ", 283.816, -26.297, 2.02, -0.13},
	{97649, 51, "Altair", "Альтаир", "Aquila", "Орёл", "α", 297.696, 8.868, 0.76, 0.22},
	{100751, 52, "Peacock", "Пикок", "Pavo", "Павлин", "α", 306.412, -56.735, 1.94, -0.12},
	{102098, 53, "Deneb", "Денеб", "Cygnus", "Лебедь", "α", 310.358, 45.280, 1.25, 0.09},
	{107315, 54, "Enif", "Эниф", "Pegasus", "Пегас", "ε", 326.046, 9.875, 2.39, 1.52},
	{109268, 55, "Alnair", "Альнаир", "Grus", "Журавль", "α", 332.058, -46.961, 1.74, -0.13},
	{113368, 56, "Fomalhaut", "Фомальгаут", "Piscis Austrinus", "Южная Рыба", "α", 344.413, -29.622, 1.16, 0.09},
	{113963, 57, "Markab", "Маркаб", "Pegasus", "Пегас", "α", 346.190, 15.205, 2.49, -0.04},

	{11767, 0, "Polaris", "Полярная", "Ursa Minor", "Малая Медведица", "α", 37.954, 89.264, 2.02, 0.60},
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in navigational star catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := New(defaultStars)
		if err != nil {
			panic("catalog: invalid built-in catalog: " + err.Error())
		}
		defaultCatalog = c
	})
	return defaultCatalog
}
